package service

import (
	"fmt"
	"js_learning_backend/internal/model"
	"js_learning_backend/internal/repository"
	"js_learning_backend/internal/util"

	"gorm.io/gorm"
)

// TestService 测验出题端：试卷和题目的增删改，以及建题时的数据完整性校验
type TestService struct {
	TestRepo   *repository.TestRepository
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
}

func NewTestService(
	testRepo *repository.TestRepository,
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
) *TestService {
	return &TestService{TestRepo: testRepo, LessonRepo: lessonRepo, CourseRepo: courseRepo}
}

type TestReq struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	PassingScore *int    `json:"passingScore"`
	IsActive     *bool   `json:"isActive"`
}

type AnswerOptionReq struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
	Order     int    `json:"order"`
}

type QuestionReq struct {
	Text    string             `json:"text" binding:"required"`
	Type    model.QuestionType `json:"type" binding:"required"`
	Points  int                `json:"points"`
	Options []AnswerOptionReq  `json:"options"`
}

func (s *TestService) Create(claims *util.Claims, lessonID uint, req TestReq) (*model.Test, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(claims, lesson.CourseID); err != nil {
		return nil, err
	}

	if req.Title == nil || *req.Title == "" {
		return nil, util.ErrTestTitleRequired
	}
	if req.PassingScore == nil || *req.PassingScore < 0 || *req.PassingScore > 100 {
		return nil, util.ErrInvalidPassingScore
	}

	test := &model.Test{
		LessonID:     lessonID,
		Title:        *req.Title,
		PassingScore: *req.PassingScore,
		IsActive:     true,
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}

	if err := s.TestRepo.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) Update(claims *util.Claims, testID uint, req TestReq) (*model.Test, error) {
	test, err := s.findOwned(claims, testID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		test.Title = *req.Title
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.PassingScore != nil {
		if *req.PassingScore < 0 || *req.PassingScore > 100 {
			return nil, util.ErrInvalidPassingScore
		}
		test.PassingScore = *req.PassingScore
	}
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}

	if err := s.TestRepo.Update(test); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) Delete(claims *util.Claims, testID uint) error {
	if _, err := s.findOwned(claims, testID); err != nil {
		return err
	}
	return s.TestRepo.DeleteCascade(testID)
}

func (s *TestService) Get(claims *util.Claims, testID uint) (*model.Test, error) {
	return s.findOwned(claims, testID)
}

// AddQuestion 建题入口，落库前先过 ValidateQuestion
func (s *TestService) AddQuestion(claims *util.Claims, testID uint, req QuestionReq) (*model.Question, error) {
	if _, err := s.findOwned(claims, testID); err != nil {
		return nil, err
	}

	question := buildQuestion(testID, req)
	if err := ValidateQuestion(question); err != nil {
		return nil, err
	}

	if err := s.TestRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *TestService) UpdateQuestion(claims *util.Claims, questionID uint, req QuestionReq) (*model.Question, error) {
	existing, err := s.TestRepo.FindQuestionByID(questionID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.findOwned(claims, existing.TestID); err != nil {
		return nil, err
	}

	question := buildQuestion(existing.TestID, req)
	question.ID = existing.ID
	question.CreatedAt = existing.CreatedAt
	if err := ValidateQuestion(question); err != nil {
		return nil, err
	}

	if err := s.TestRepo.UpdateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *TestService) DeleteQuestion(claims *util.Claims, questionID uint) error {
	existing, err := s.TestRepo.FindQuestionByID(questionID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrQuestionNotFound
	}
	if err != nil {
		return err
	}
	if _, err := s.findOwned(claims, existing.TestID); err != nil {
		return err
	}
	return s.TestRepo.DeleteQuestion(questionID)
}

func buildQuestion(testID uint, req QuestionReq) *model.Question {
	question := &model.Question{
		TestID: testID,
		Text:   req.Text,
		Type:   req.Type,
		Points: req.Points,
	}
	if question.Points <= 0 {
		question.Points = 1
	}
	for _, opt := range req.Options {
		question.Options = append(question.Options, model.AnswerOption{
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
			Order:     opt.Order,
		})
	}
	return question
}

// ValidateQuestion 建题时的数据完整性校验。单选题必须恰好一个正确选项，
// 多选题至少一个，填空题恰好一个选项且该选项即标准答案。
// 评分算法据此不需要为异常数据做特殊分支。
func ValidateQuestion(q *model.Question) error {
	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}

	switch q.Type {
	case model.SingleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: a single choice question needs at least two options", util.ErrInvalidQuestion)
		}
		if correct != 1 {
			return fmt.Errorf("%w: a single choice question must have exactly one correct option, got %d", util.ErrInvalidQuestion, correct)
		}
	case model.MultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: a multiple choice question needs at least two options", util.ErrInvalidQuestion)
		}
		if correct == 0 {
			return fmt.Errorf("%w: a multiple choice question must have at least one correct option", util.ErrInvalidQuestion)
		}
	case model.FreeText:
		if len(q.Options) != 1 || !q.Options[0].IsCorrect {
			return fmt.Errorf("%w: a free text question must have exactly one correct option carrying the canonical answer", util.ErrInvalidQuestion)
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", util.ErrInvalidQuestion, q.Type)
	}
	return nil
}

func (s *TestService) findOwned(claims *util.Claims, testID uint) (*model.Test, error) {
	test, err := s.TestRepo.FindByID(testID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	lesson, err := s.LessonRepo.FindByID(test.LessonID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(claims, lesson.CourseID); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) checkOwnership(claims *util.Claims, courseID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	if claims.Role != model.Admin && course.CreatorID != claims.UserID {
		return util.ErrPermissionDenied
	}
	return nil
}
