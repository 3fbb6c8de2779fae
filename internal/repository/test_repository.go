package repository

import (
	"js_learning_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

// FindByID 加载测验及其题目和选项，题目按创建顺序、选项按 order 排序
func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.`order` asc, answer_options.id asc")
		}).
		First(&test, id).Error
	return &test, err
}

// FindByLesson 每个课时至多取一个测验（最早创建的）
func (r *TestRepository) FindByLesson(lessonID uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.`order` asc, answer_options.id asc")
		}).
		Where("lesson_id = ?", lessonID).
		Order("id asc").
		First(&test).Error
	return &test, err
}

func (r *TestRepository) HasTest(lessonID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Test{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	return count > 0, err
}

func (r *TestRepository) Update(test *model.Test) error {
	return r.DB.Omit("Questions").Save(test).Error
}

// DeleteCascade 删除测验及其题目、选项和成绩
func (r *TestRepository) DeleteCascade(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("test_id = ?", id).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).
				Delete(&model.AnswerOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("test_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("test_id = ?", id).Delete(&model.TestResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Test{}, id).Error
	})
}

// CreateQuestion 创建题目及其选项
func (r *TestRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *TestRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.`order` asc, answer_options.id asc")
		}).
		First(&q, id).Error
	return &q, err
}

// UpdateQuestion 整体替换题目的选项集合
func (r *TestRepository) UpdateQuestion(question *model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).
			Unscoped().Delete(&model.AnswerOption{}).Error; err != nil {
			return err
		}
		for i := range question.Options {
			question.Options[i].ID = 0
			question.Options[i].QuestionID = question.ID
			if err := tx.Create(&question.Options[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TestRepository) DeleteQuestion(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.AnswerOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}
