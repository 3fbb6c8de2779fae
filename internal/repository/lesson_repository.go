package repository

import (
	"js_learning_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

// FindPublishedByCourse 课时固定按 order、id 排序，顺序即闯关顺序
func (r *LessonRepository) FindPublishedByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ? AND is_published = ?", courseID, true).
		Order("`order` asc, id asc").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) FindByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order` asc, id asc").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// DeleteCascade 删除课时及其测验、成绩与进度
func (r *LessonRepository) DeleteCascade(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var testIDs []uint
		if err := tx.Model(&model.Test{}).Where("lesson_id = ?", id).
			Pluck("id", &testIDs).Error; err != nil {
			return err
		}
		if len(testIDs) > 0 {
			var questionIDs []uint
			if err := tx.Model(&model.Question{}).Where("test_id IN ?", testIDs).
				Pluck("id", &questionIDs).Error; err != nil {
				return err
			}
			if len(questionIDs) > 0 {
				if err := tx.Where("question_id IN ?", questionIDs).
					Delete(&model.AnswerOption{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("test_id IN ?", testIDs).Delete(&model.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", testIDs).Delete(&model.Test{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&model.TestResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Lesson{}, id).Error
	})
}

// Reorder 按前端传入的ID顺序重排课时
func (r *LessonRepository) Reorder(courseID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for index, lessonID := range orderedIDs {
			if err := tx.Model(&model.Lesson{}).
				Where("id = ? AND course_id = ?", lessonID, courseID).
				Update("order", index).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
