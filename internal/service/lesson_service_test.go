package service

import (
	"js_learning_backend/internal/model"
	"js_learning_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lesson(id uint, order int) model.Lesson {
	l := model.Lesson{Order: order}
	l.ID = id
	return l
}

func TestPreviousLesson(t *testing.T) {
	lessons := []model.Lesson{lesson(1, 1), lesson(2, 2), lesson(3, 3)}

	t.Run("first lesson has no predecessor", func(t *testing.T) {
		assert.Nil(t, previousLesson(lessons, 1))
	})

	t.Run("middle lesson", func(t *testing.T) {
		prev := previousLesson(lessons, 2)
		require.NotNil(t, prev)
		assert.Equal(t, uint(1), prev.ID)
	})

	t.Run("last lesson", func(t *testing.T) {
		prev := previousLesson(lessons, 3)
		require.NotNil(t, prev)
		assert.Equal(t, uint(2), prev.ID)
	})

	t.Run("lesson not in list", func(t *testing.T) {
		assert.Nil(t, previousLesson(lessons, 99))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.Nil(t, previousLesson(nil, 1))
	})
}

func TestSequentialGateError(t *testing.T) {
	assert.ErrorIs(t, sequentialGateError(true), util.ErrPrevTestNotPassed)
	assert.ErrorIs(t, sequentialGateError(false), util.ErrPrevLessonNotCompleted)
}

func TestStudentTestView_HidesCorrectFlags(t *testing.T) {
	test := &model.Test{
		Title:        "quiz",
		PassingScore: 70,
		Questions: []model.Question{
			question(1, model.SingleChoice, 1, option(10, "a", true), option(11, "b", false)),
			question(2, model.FreeText, 1, option(20, "secret answer", true)),
		},
	}

	view := studentTestView(test)
	require.Len(t, view.Questions, 2)

	// 选择题保留选项但不带 is_correct
	assert.Len(t, view.Questions[0].Options, 2)

	// 填空题不下发任何选项，标准答案不能泄露给学生
	assert.Empty(t, view.Questions[1].Options)
}
