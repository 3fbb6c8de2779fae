package repository

import (
	"js_learning_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Creator").First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindActive() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("is_active = ?", true).Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByCreator(creatorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("creator_id = ? AND is_active = ?", creatorID, true).
		Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// DeleteCascade 删除课程及其全部课时、测验、选课、进度和成绩
func (r *CourseRepository) DeleteCascade(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&model.Lesson{}).Where("course_id = ?", id).
			Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}

		if len(lessonIDs) > 0 {
			var testIDs []uint
			if err := tx.Model(&model.Test{}).Where("lesson_id IN ?", lessonIDs).
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

			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&model.TestResult{}).Error; err != nil {
				return err
			}
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&model.Progress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// Enroll 幂等选课：已存在记录时直接返回
func (r *EnrollmentRepository) Enroll(studentID, courseID uint) error {
	var existing model.Enrollment
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	enrollment := &model.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) Unenroll(studentID, courseID uint) error {
	return r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		Delete(&model.Enrollment{}).Error
}

func (r *EnrollmentRepository) IsEnrolled(studentID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) FindByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").Where("student_id = ?", studentID).
		Order("enrolled_at desc").Find(&enrollments).Error
	return enrollments, err
}
