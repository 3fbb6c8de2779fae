package service

import (
	"encoding/json"
	"js_learning_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalAnswers(t *testing.T) {
	questions := []model.Question{
		question(1, model.MultipleChoice, 1, option(10, "a", true), option(11, "b", true)),
		question(2, model.FreeText, 1, option(20, "js", true)),
	}
	responses := map[uint]NormalizedAnswer{
		1: {QuestionID: 1, Selected: map[uint]bool{10: true, 11: true}},
		2: {QuestionID: 2, Text: "my answer"},
	}

	raw, err := marshalAnswers(questions, responses)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "my answer", decoded["2"])

	ids, ok := decoded["1"].([]interface{})
	require.True(t, ok)
	assert.Len(t, ids, 2)
}

func TestSetMaxAttempts(t *testing.T) {
	s := NewGradingService(nil, nil, nil, nil, 3)
	assert.Equal(t, 3, s.attemptPolicy().MaxAttempts)

	s.SetMaxAttempts(5)
	assert.Equal(t, 5, s.attemptPolicy().MaxAttempts)

	// 非法值直接忽略
	s.SetMaxAttempts(0)
	assert.Equal(t, 5, s.attemptPolicy().MaxAttempts)

	s.SetMaxAttempts(-1)
	assert.Equal(t, 5, s.attemptPolicy().MaxAttempts)
}
