package service

import (
	"js_learning_backend/internal/model"
	"js_learning_backend/pkg/logger"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func option(id uint, text string, correct bool) model.AnswerOption {
	opt := model.AnswerOption{Text: text, IsCorrect: correct}
	opt.ID = id
	return opt
}

func question(id uint, qt model.QuestionType, points int, opts ...model.AnswerOption) model.Question {
	q := model.Question{Type: qt, Points: points, Options: opts}
	q.ID = id
	return q
}

func TestNormalizeSubmission_SingleChoice(t *testing.T) {
	questions := []model.Question{
		question(1, model.SingleChoice, 1, option(10, "a", true), option(11, "b", false)),
	}

	t.Run("valid", func(t *testing.T) {
		normalized, errs := NormalizeSubmission(questions, map[uint]RawAnswer{
			1: {OptionIDs: []uint{10}},
		})
		require.Empty(t, errs)
		require.Contains(t, normalized, uint(1))
		assert.True(t, normalized[1].Selected[10])
	})

	t.Run("missing", func(t *testing.T) {
		_, errs := NormalizeSubmission(questions, map[uint]RawAnswer{})
		assert.Equal(t, MsgFieldRequired, errs[1])
	})

	t.Run("unknown option id", func(t *testing.T) {
		_, errs := NormalizeSubmission(questions, map[uint]RawAnswer{
			1: {OptionIDs: []uint{99}},
		})
		assert.Equal(t, MsgInvalidAnswerSelected, errs[1])
	})

	t.Run("more than one id", func(t *testing.T) {
		_, errs := NormalizeSubmission(questions, map[uint]RawAnswer{
			1: {OptionIDs: []uint{10, 11}},
		})
		assert.Equal(t, MsgInvalidAnswerSelected, errs[1])
	})
}

func TestNormalizeSubmission_MultipleChoice(t *testing.T) {
	questions := []model.Question{
		question(2, model.MultipleChoice, 2,
			option(20, "a", true), option(21, "b", true), option(22, "c", false)),
	}

	t.Run("valid pair", func(t *testing.T) {
		normalized, errs := NormalizeSubmission(questions, map[uint]RawAnswer{
			2: {OptionIDs: []uint{20, 21}},
		})
		require.Empty(t, errs)
		assert.Len(t, normalized[2].Selected, 2)
	})

	t.Run("empty selection", func(t *testing.T) {
		_, errs := NormalizeSubmission(questions, map[uint]RawAnswer{
			2: {OptionIDs: []uint{}},
		})
		assert.Equal(t, MsgFieldRequired, errs[2])
	})

	t.Run("foreign option id", func(t *testing.T) {
		_, errs := NormalizeSubmission(questions, map[uint]RawAnswer{
			2: {OptionIDs: []uint{20, 99}},
		})
		assert.Equal(t, MsgInvalidAnswersSelected, errs[2])
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		_, errs := NormalizeSubmission(questions, map[uint]RawAnswer{
			2: {OptionIDs: []uint{20, 20}},
		})
		assert.Equal(t, MsgInvalidAnswersSelected, errs[2])
	})
}

func TestNormalizeSubmission_FreeText(t *testing.T) {
	questions := []model.Question{
		question(3, model.FreeText, 1, option(30, "answer", true)),
	}

	t.Run("text kept literally", func(t *testing.T) {
		normalized, errs := NormalizeSubmission(questions, map[uint]RawAnswer{
			3: {Text: "  Answer  "},
		})
		require.Empty(t, errs)
		assert.Equal(t, "  Answer  ", normalized[3].Text)
	})

	t.Run("absent becomes empty string", func(t *testing.T) {
		normalized, errs := NormalizeSubmission(questions, map[uint]RawAnswer{})
		require.Empty(t, errs)
		assert.Equal(t, "", normalized[3].Text)
	})
}

func TestNormalizeSubmission_CollectsAllErrors(t *testing.T) {
	questions := []model.Question{
		question(1, model.SingleChoice, 1, option(10, "a", true), option(11, "b", false)),
		question(2, model.MultipleChoice, 1, option(20, "a", true), option(21, "b", false)),
	}

	_, errs := NormalizeSubmission(questions, map[uint]RawAnswer{
		2: {OptionIDs: []uint{99}},
	})
	assert.Len(t, errs, 2)
	assert.Equal(t, MsgFieldRequired, errs[1])
	assert.Equal(t, MsgInvalidAnswersSelected, errs[2])
}

func TestScoreTest_ZeroTotalPoints(t *testing.T) {
	score := ScoreTest(nil, nil)
	assert.Equal(t, 0.0, score)

	score = ScoreTest([]model.Question{
		question(1, model.SingleChoice, 0, option(10, "a", true), option(11, "b", false)),
	}, map[uint]NormalizedAnswer{
		1: {QuestionID: 1, Selected: map[uint]bool{10: true}},
	})
	assert.Equal(t, 0.0, score)
}

func TestScoreTest_SingleChoice(t *testing.T) {
	questions := []model.Question{
		question(1, model.SingleChoice, 2, option(10, "a", true), option(11, "b", false)),
	}

	t.Run("correct gets full points", func(t *testing.T) {
		score := ScoreTest(questions, map[uint]NormalizedAnswer{
			1: {QuestionID: 1, Selected: map[uint]bool{10: true}},
		})
		assert.Equal(t, 100.0, score)
	})

	t.Run("wrong gets zero", func(t *testing.T) {
		score := ScoreTest(questions, map[uint]NormalizedAnswer{
			1: {QuestionID: 1, Selected: map[uint]bool{11: true}},
		})
		assert.Equal(t, 0.0, score)
	})
}

func TestScoreTest_MultipleChoiceExactMatch(t *testing.T) {
	questions := []model.Question{
		question(1, model.MultipleChoice, 3,
			option(10, "a", true), option(11, "b", true), option(12, "c", false)),
	}

	cases := []struct {
		name     string
		selected map[uint]bool
		want     float64
	}{
		{"exact set", map[uint]bool{10: true, 11: true}, 100},
		{"subset gets zero", map[uint]bool{10: true}, 0},
		{"superset gets zero", map[uint]bool{10: true, 11: true, 12: true}, 0},
		{"disjoint gets zero", map[uint]bool{12: true}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := ScoreTest(questions, map[uint]NormalizedAnswer{
				1: {QuestionID: 1, Selected: tc.selected},
			})
			assert.Equal(t, tc.want, score)
		})
	}
}

func TestScoreTest_FreeText(t *testing.T) {
	questions := []model.Question{
		question(1, model.FreeText, 1, option(10, "Hello World", true)),
	}

	t.Run("trim and case insensitive", func(t *testing.T) {
		score := ScoreTest(questions, map[uint]NormalizedAnswer{
			1: {QuestionID: 1, Text: "  hello world  "},
		})
		assert.Equal(t, 100.0, score)
	})

	t.Run("different text fails", func(t *testing.T) {
		score := ScoreTest(questions, map[uint]NormalizedAnswer{
			1: {QuestionID: 1, Text: "goodbye"},
		})
		assert.Equal(t, 0.0, score)
	})

	t.Run("no canonical answer never passes", func(t *testing.T) {
		broken := []model.Question{question(1, model.FreeText, 1)}
		score := ScoreTest(broken, map[uint]NormalizedAnswer{
			1: {QuestionID: 1, Text: ""},
		})
		assert.Equal(t, 0.0, score)
	})
}

func TestScoreTest_MixedQuestions(t *testing.T) {
	// 两道一分题答对一道：50%
	questions := []model.Question{
		question(1, model.SingleChoice, 1, option(10, "a", true), option(11, "b", false)),
		question(2, model.FreeText, 1, option(20, "js", true)),
	}

	score := ScoreTest(questions, map[uint]NormalizedAnswer{
		1: {QuestionID: 1, Selected: map[uint]bool{10: true}},
		2: {QuestionID: 2, Text: "python"},
	})
	assert.Equal(t, 50.0, score)
}

func TestScoreTest_WeightedPoints(t *testing.T) {
	questions := []model.Question{
		question(1, model.SingleChoice, 3, option(10, "a", true), option(11, "b", false)),
		question(2, model.SingleChoice, 1, option(20, "a", true), option(21, "b", false)),
	}

	score := ScoreTest(questions, map[uint]NormalizedAnswer{
		1: {QuestionID: 1, Selected: map[uint]bool{10: true}},
		2: {QuestionID: 2, Selected: map[uint]bool{21: true}},
	})
	assert.Equal(t, 75.0, score)
}

func TestScoreTest_AggregateThresholdOnly(t *testing.T) {
	// Q1 单选，正确选项 A；Q2 多选，正确集合 {B, C}；各一分
	questions := []model.Question{
		question(1, model.SingleChoice, 1, option(10, "A", true), option(11, "X", false)),
		question(2, model.MultipleChoice, 1,
			option(20, "B", true), option(21, "C", true), option(22, "D", false)),
	}

	t.Run("Q1 correct, Q2 subset", func(t *testing.T) {
		score := ScoreTest(questions, map[uint]NormalizedAnswer{
			1: {QuestionID: 1, Selected: map[uint]bool{10: true}},
			2: {QuestionID: 2, Selected: map[uint]bool{20: true}},
		})
		assert.Equal(t, 50.0, score)
		assert.True(t, ReachedThreshold(score, 50))
	})

	t.Run("Q1 wrong, Q2 exact", func(t *testing.T) {
		// 总分过线即通过，不要求每题都对
		score := ScoreTest(questions, map[uint]NormalizedAnswer{
			1: {QuestionID: 1, Selected: map[uint]bool{11: true}},
			2: {QuestionID: 2, Selected: map[uint]bool{20: true, 21: true}},
		})
		assert.Equal(t, 50.0, score)
		assert.True(t, ReachedThreshold(score, 50))
	})
}

func TestScoreTest_UnknownTypeScoresZero(t *testing.T) {
	questions := []model.Question{
		question(1, "essay", 1, option(10, "a", true)),
	}
	score := ScoreTest(questions, map[uint]NormalizedAnswer{
		1: {QuestionID: 1, Text: "a"},
	})
	assert.Equal(t, 0.0, score)
}

func TestAttemptPolicy(t *testing.T) {
	policy := AttemptPolicy{MaxAttempts: 3}

	assert.Equal(t, 1, policy.Next(0))
	assert.Equal(t, 4, policy.Next(3))

	assert.True(t, policy.Allowed(1))
	assert.True(t, policy.Allowed(3))
	assert.False(t, policy.Allowed(4))
}

func TestReachedThreshold(t *testing.T) {
	assert.True(t, ReachedThreshold(70, 70))
	assert.True(t, ReachedThreshold(70.1, 70))
	assert.False(t, ReachedThreshold(69.9, 70))
	assert.True(t, ReachedThreshold(0, 0))
}
