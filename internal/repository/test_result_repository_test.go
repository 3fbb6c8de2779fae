package repository

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"js_learning_backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB 每个测试独占一个内存库，互不串数据
func openTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func passingResult(studentID, lessonID, testID uint, attempt int) *model.TestResult {
	return &model.TestResult{
		StudentID:   studentID,
		LessonID:    lessonID,
		TestID:      testID,
		Score:       100,
		Answers:     json.RawMessage(`{}`),
		Attempt:     attempt,
		CompletedAt: time.Now(),
	}
}

func TestCreateWithProgress_RepeatedPassKeepsSingleProgressRow(t *testing.T) {
	db := openTestDB(t, &model.TestResult{}, &model.Progress{})
	repo := NewTestResultRepository(db)

	require.NoError(t, repo.CreateWithProgress(passingResult(1, 2, 3, 1), true))
	require.NoError(t, repo.CreateWithProgress(passingResult(1, 2, 3, 2), true))

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).
		Where("student_id = ? AND lesson_id = ?", 1, 2).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var p model.Progress
	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", 1, 2).First(&p).Error)
	assert.True(t, p.Completed)
	assert.NotNil(t, p.CompletedAt)

	attempts, err := repo.CountAttempts(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), attempts)
}

func TestCreateWithProgress_FailedAttemptWritesNoProgress(t *testing.T) {
	db := openTestDB(t, &model.TestResult{}, &model.Progress{})
	repo := NewTestResultRepository(db)

	result := passingResult(1, 2, 3, 1)
	result.Score = 20
	require.NoError(t, repo.CreateWithProgress(result, false))

	var results int64
	require.NoError(t, db.Model(&model.TestResult{}).Count(&results).Error)
	assert.Equal(t, int64(1), results)

	var progress int64
	require.NoError(t, db.Model(&model.Progress{}).Count(&progress).Error)
	assert.Equal(t, int64(0), progress)
}

func TestMarkCompleted_Idempotent(t *testing.T) {
	db := openTestDB(t, &model.Progress{})
	repo := NewProgressRepository(db)

	require.NoError(t, repo.MarkCompleted(7, 9))
	require.NoError(t, repo.MarkCompleted(7, 9))

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).
		Where("student_id = ? AND lesson_id = ?", 7, 9).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	completed, err := repo.IsCompleted(7, 9)
	require.NoError(t, err)
	assert.True(t, completed)
}
