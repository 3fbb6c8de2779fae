package service

import (
	"js_learning_backend/internal/model"
	"js_learning_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuestion_SingleChoice(t *testing.T) {
	t.Run("exactly one correct option passes", func(t *testing.T) {
		q := question(0, model.SingleChoice, 1,
			option(0, "a", true), option(0, "b", false))
		assert.NoError(t, ValidateQuestion(&q))
	})

	t.Run("no correct option fails", func(t *testing.T) {
		q := question(0, model.SingleChoice, 1,
			option(0, "a", false), option(0, "b", false))
		err := ValidateQuestion(&q)
		assert.ErrorIs(t, err, util.ErrInvalidQuestion)
	})

	t.Run("two correct options fail", func(t *testing.T) {
		q := question(0, model.SingleChoice, 1,
			option(0, "a", true), option(0, "b", true))
		assert.ErrorIs(t, ValidateQuestion(&q), util.ErrInvalidQuestion)
	})

	t.Run("single option fails", func(t *testing.T) {
		q := question(0, model.SingleChoice, 1, option(0, "a", true))
		assert.ErrorIs(t, ValidateQuestion(&q), util.ErrInvalidQuestion)
	})
}

func TestValidateQuestion_MultipleChoice(t *testing.T) {
	t.Run("at least one correct passes", func(t *testing.T) {
		q := question(0, model.MultipleChoice, 1,
			option(0, "a", true), option(0, "b", true), option(0, "c", false))
		assert.NoError(t, ValidateQuestion(&q))
	})

	t.Run("no correct option fails", func(t *testing.T) {
		q := question(0, model.MultipleChoice, 1,
			option(0, "a", false), option(0, "b", false))
		assert.ErrorIs(t, ValidateQuestion(&q), util.ErrInvalidQuestion)
	})
}

func TestValidateQuestion_FreeText(t *testing.T) {
	t.Run("one correct option carrying the answer passes", func(t *testing.T) {
		q := question(0, model.FreeText, 1, option(0, "expected answer", true))
		assert.NoError(t, ValidateQuestion(&q))
	})

	t.Run("no options fails", func(t *testing.T) {
		q := question(0, model.FreeText, 1)
		assert.ErrorIs(t, ValidateQuestion(&q), util.ErrInvalidQuestion)
	})

	t.Run("incorrect flag fails", func(t *testing.T) {
		q := question(0, model.FreeText, 1, option(0, "answer", false))
		assert.ErrorIs(t, ValidateQuestion(&q), util.ErrInvalidQuestion)
	})

	t.Run("extra options fail", func(t *testing.T) {
		q := question(0, model.FreeText, 1,
			option(0, "answer", true), option(0, "other", false))
		assert.ErrorIs(t, ValidateQuestion(&q), util.ErrInvalidQuestion)
	})
}

func TestValidateQuestion_UnknownType(t *testing.T) {
	q := question(0, "essay", 1, option(0, "a", true))
	assert.ErrorIs(t, ValidateQuestion(&q), util.ErrInvalidQuestion)
}

func TestBuildQuestion_DefaultPoints(t *testing.T) {
	q := buildQuestion(5, QuestionReq{Text: "t", Type: model.SingleChoice})
	assert.Equal(t, 1, q.Points)

	q = buildQuestion(5, QuestionReq{Text: "t", Type: model.SingleChoice, Points: 4})
	assert.Equal(t, 4, q.Points)
}
