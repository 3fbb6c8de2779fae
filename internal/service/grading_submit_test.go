package service

import (
	"fmt"
	"testing"

	"js_learning_backend/internal/model"
	"js_learning_backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	fixtureStudentID = uint(11)
	fixtureLessonID  = uint(21)
)

// openGradingFixture 内存库 + 单题测验（通过线 50），尝试上限 2
func openGradingFixture(t *testing.T) (*GradingService, *gorm.DB, *model.Test) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Test{},
		&model.Question{},
		&model.AnswerOption{},
		&model.TestResult{},
		&model.Progress{},
	))

	test := &model.Test{
		LessonID:     fixtureLessonID,
		Title:        "JS 基础检测",
		PassingScore: 50,
		IsActive:     true,
		Questions: []model.Question{
			{
				Text:   "typeof null 的结果是什么？",
				Type:   model.SingleChoice,
				Points: 1,
				Options: []model.AnswerOption{
					{Text: "object", IsCorrect: true, Order: 1},
					{Text: "null", Order: 2},
				},
			},
		},
	}
	require.NoError(t, db.Create(test).Error)

	svc := NewGradingService(
		repository.NewTestRepository(db),
		repository.NewTestResultRepository(db),
		repository.NewProgressRepository(db),
		nil,
		2,
	)
	return svc, db, test
}

func correctAnswers(test *model.Test) map[uint]RawAnswer {
	q := test.Questions[0]
	return map[uint]RawAnswer{q.ID: {OptionIDs: []uint{q.Options[0].ID}}}
}

func countResults(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.TestResult{}).Count(&count).Error)
	return count
}

func TestSubmit_OverLimitRejectedWithoutResultRow(t *testing.T) {
	svc, db, test := openGradingFixture(t)
	answers := correctAnswers(test)

	for i := 0; i < 2; i++ {
		outcome, err := svc.Submit(fixtureStudentID, fixtureLessonID, test.ID, answers)
		require.NoError(t, err)
		assert.Equal(t, SubmitAccepted, outcome.Status)
		assert.Equal(t, i+1, outcome.Attempt)
	}
	require.Equal(t, int64(2), countResults(t, db))

	// 第三次提交被拒绝，落库行数不变
	outcome, err := svc.Submit(fixtureStudentID, fixtureLessonID, test.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, SubmitRejectedMaxAttempt, outcome.Status)
	assert.Nil(t, outcome.Result)
	assert.Equal(t, int64(2), countResults(t, db))
}

func TestSubmit_ValidationErrorConsumesNoAttempt(t *testing.T) {
	svc, db, test := openGradingFixture(t)
	q := test.Questions[0]

	outcome, err := svc.Submit(fixtureStudentID, fixtureLessonID, test.ID,
		map[uint]RawAnswer{q.ID: {OptionIDs: []uint{9999}}})
	require.NoError(t, err)
	assert.Equal(t, SubmitValidationError, outcome.Status)
	assert.Contains(t, outcome.FieldErrors, q.ID)
	assert.Equal(t, int64(0), countResults(t, db))

	// 校验失败不占次数，下一次有效提交仍是第 1 次
	outcome, err = svc.Submit(fixtureStudentID, fixtureLessonID, test.ID, correctAnswers(test))
	require.NoError(t, err)
	assert.Equal(t, SubmitAccepted, outcome.Status)
	assert.Equal(t, 1, outcome.Attempt)
}

func TestSubmit_RepeatedPassKeepsSingleProgressRow(t *testing.T) {
	svc, db, test := openGradingFixture(t)
	answers := correctAnswers(test)

	for i := 0; i < 2; i++ {
		outcome, err := svc.Submit(fixtureStudentID, fixtureLessonID, test.ID, answers)
		require.NoError(t, err)
		assert.True(t, outcome.Passed)
	}

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).
		Where("student_id = ? AND lesson_id = ?", fixtureStudentID, fixtureLessonID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
