package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestValidateMimeType(t *testing.T) {
	t.Run("png accepted as image", func(t *testing.T) {
		mime, err := ValidateMimeType(bytes.NewReader(pngHeader), []string{MimeImage})
		require.NoError(t, err)
		assert.Equal(t, "image/png", mime)
	})

	t.Run("plain text rejected", func(t *testing.T) {
		_, err := ValidateMimeType(bytes.NewReader([]byte("hello world")), []string{MimeImage})
		assert.Error(t, err)
	})
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.True(t, IsImage("image/jpeg"))
	assert.False(t, IsImage("application/pdf"))
}
