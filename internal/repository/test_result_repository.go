package repository

import (
	"js_learning_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type TestResultRepository struct {
	DB *gorm.DB
}

func NewTestResultRepository(db *gorm.DB) *TestResultRepository {
	return &TestResultRepository{DB: db}
}

// CountAttempts 已有作答次数，下一次尝试号 = count + 1
func (r *TestResultRepository) CountAttempts(studentID, lessonID, testID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestResult{}).
		Where("student_id = ? AND lesson_id = ? AND test_id = ?", studentID, lessonID, testID).
		Count(&count).Error
	return count, err
}

// CreateWithProgress 在同一事务内写入成绩行，并在达线时更新进度，
// 避免成绩已存但进度丢失的半写状态。
func (r *TestResultRepository) CreateWithProgress(result *model.TestResult, markCompleted bool) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}
		if !markCompleted {
			return nil
		}
		return upsertProgress(tx, result.StudentID, result.LessonID)
	})
}

func (r *TestResultRepository) FindByStudentAndLesson(studentID, lessonID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.DB.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		Order("completed_at desc").Find(&results).Error
	return results, err
}

// Stats 在持久化行上直接聚合 avg/max/min
func (r *TestResultRepository) Stats(studentID, lessonID uint) (*model.ResultStats, error) {
	var stats model.ResultStats
	err := r.DB.Model(&model.TestResult{}).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		Select("COALESCE(AVG(score), 0) as avg, COALESCE(MAX(score), 0) as max, COALESCE(MIN(score), 0) as min").
		Scan(&stats).Error
	return &stats, err
}

type CourseResultRow struct {
	StudentName string  `json:"studentName"`
	LessonTitle string  `json:"lessonTitle"`
	Score       float64 `json:"score"`
	Attempt     int     `json:"attempt"`
}

// FindByCourse 教师面板：某课程下全部学生的成绩行
func (r *TestResultRepository) FindByCourse(courseID uint) ([]CourseResultRow, error) {
	var rows []CourseResultRow
	err := r.DB.Table("test_results tr").
		Select("u.username as student_name, l.title as lesson_title, tr.score, tr.attempt").
		Joins("JOIN users u ON tr.student_id = u.id").
		Joins("JOIN lessons l ON tr.lesson_id = l.id").
		Where("l.course_id = ? AND tr.deleted_at IS NULL", courseID).
		Order("tr.completed_at desc").
		Scan(&rows).Error
	return rows, err
}

type StudentResultRow struct {
	LessonTitle string  `json:"lessonTitle"`
	Score       float64 `json:"score"`
	Attempt     int     `json:"attempt"`
}

// FindByStudentAndCourse 学生面板：某课程下该学生的成绩行
func (r *TestResultRepository) FindByStudentAndCourse(studentID, courseID uint) ([]StudentResultRow, error) {
	var rows []StudentResultRow
	err := r.DB.Table("test_results tr").
		Select("l.title as lesson_title, tr.score, tr.attempt").
		Joins("JOIN lessons l ON tr.lesson_id = l.id").
		Where("tr.student_id = ? AND l.course_id = ? AND tr.deleted_at IS NULL", studentID, courseID).
		Order("tr.completed_at desc").
		Scan(&rows).Error
	return rows, err
}

// upsertProgress 进度行 (student, lesson) 唯一；重复调用只刷新时间戳
func upsertProgress(tx *gorm.DB, studentID, lessonID uint) error {
	now := time.Now()
	var p model.Progress
	err := tx.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&model.Progress{
			StudentID:   studentID,
			LessonID:    lessonID,
			Completed:   true,
			CompletedAt: &now,
		}).Error
	}
	if err != nil {
		return err
	}
	p.Completed = true
	p.CompletedAt = &now
	return tx.Save(&p).Error
}
