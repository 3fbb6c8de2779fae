package repository

import (
	"js_learning_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) IsCompleted(studentID, lessonID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("student_id = ? AND lesson_id = ? AND completed = ?", studentID, lessonID, true).
		Count(&count).Error
	return count > 0, err
}

// MarkCompleted 手动完成课时（无测验课时的完成路径），幂等
func (r *ProgressRepository) MarkCompleted(studentID, lessonID uint) error {
	return upsertProgress(r.DB, studentID, lessonID)
}

// CompletedLessons 返回学生在给定课时集合中已完成的课时ID
func (r *ProgressRepository) CompletedLessons(studentID uint, lessonIDs []uint) (map[uint]bool, error) {
	completed := make(map[uint]bool)
	if len(lessonIDs) == 0 {
		return completed, nil
	}

	var rows []model.Progress
	err := r.DB.Where("student_id = ? AND lesson_id IN ? AND completed = ?", studentID, lessonIDs, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		completed[p.LessonID] = true
	}
	return completed, nil
}

func (r *ProgressRepository) CountCompleted(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("student_id = ? AND completed = ?", studentID, true).
		Count(&count).Error
	return count, err
}

// CountCompletedInCourse 学生面板用的课程完成数
func (r *ProgressRepository) CountCompletedInCourse(studentID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Table("progress p").
		Joins("JOIN lessons l ON p.lesson_id = l.id").
		Where("p.student_id = ? AND l.course_id = ? AND p.completed = ? AND p.deleted_at IS NULL", studentID, courseID, true).
		Count(&count).Error
	return count, err
}
