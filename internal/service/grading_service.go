package service

import (
	"encoding/json"
	"js_learning_backend/internal/model"
	"js_learning_backend/internal/repository"
	"js_learning_backend/internal/util"
	"js_learning_backend/pkg/logger"
	"js_learning_backend/pkg/monitoring"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SubmitStatus string

const (
	SubmitAccepted           SubmitStatus = "accepted"
	SubmitRejectedMaxAttempt SubmitStatus = "rejected-max-attempts"
	SubmitValidationError    SubmitStatus = "validation-error"
)

// SubmitOutcome 一次提交的组合结果
type SubmitOutcome struct {
	Status      SubmitStatus      `json:"status"`
	Message     string            `json:"message"`
	Result      *model.TestResult `json:"result,omitempty"`
	FieldErrors map[uint]string   `json:"fieldErrors,omitempty"`
	Passed      bool              `json:"passed"`
	Attempt     int               `json:"attempt,omitempty"`
}

// GradingService 串起规范化、评分、尝试限制和进度门
type GradingService struct {
	TestRepo    *repository.TestRepository
	ResultRepo  *repository.TestResultRepository
	Progress    *repository.ProgressRepository
	Achievement *AchievementService

	mu     sync.RWMutex
	policy AttemptPolicy
}

func NewGradingService(
	testRepo *repository.TestRepository,
	resultRepo *repository.TestResultRepository,
	progressRepo *repository.ProgressRepository,
	achievement *AchievementService,
	maxAttempts int,
) *GradingService {
	return &GradingService{
		TestRepo:    testRepo,
		ResultRepo:  resultRepo,
		Progress:    progressRepo,
		Achievement: achievement,
		policy:      AttemptPolicy{MaxAttempts: maxAttempts},
	}
}

// SetMaxAttempts 配置热更新入口，对下一次提交生效
func (s *GradingService) SetMaxAttempts(max int) {
	if max <= 0 {
		return
	}
	s.mu.Lock()
	s.policy.MaxAttempts = max
	s.mu.Unlock()
}

func (s *GradingService) attemptPolicy() AttemptPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// AttemptInfo 课时详情里给前端展示的尝试状态
type AttemptInfo struct {
	Next      int  `json:"next"`
	Max       int  `json:"max"`
	Exhausted bool `json:"exhausted"`
}

func (s *GradingService) AttemptStatus(studentID, lessonID, testID uint) (*AttemptInfo, error) {
	count, err := s.ResultRepo.CountAttempts(studentID, lessonID, testID)
	if err != nil {
		return nil, err
	}
	policy := s.attemptPolicy()
	next := policy.Next(count)
	return &AttemptInfo{
		Next:      next,
		Max:       policy.MaxAttempts,
		Exhausted: !policy.Allowed(next),
	}, nil
}

// Submit 提交一次测验作答。
// 校验错误和超次拒绝都不会写成绩行；被接受的提交在同一事务内
// 写入成绩并在达线时更新进度。
func (s *GradingService) Submit(studentID, lessonID, testID uint, raw map[uint]RawAnswer) (*SubmitOutcome, error) {
	test, err := s.TestRepo.FindByID(testID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	if !test.IsActive || test.LessonID != lessonID {
		return nil, util.ErrTestNotActive
	}
	if len(test.Questions) == 0 {
		return nil, util.ErrTestHasNoQuestions
	}

	// 尝试次数检查：超限直接拒绝，不写任何记录
	count, err := s.ResultRepo.CountAttempts(studentID, lessonID, testID)
	if err != nil {
		return nil, err
	}
	policy := s.attemptPolicy()
	attempt := policy.Next(count)
	if !policy.Allowed(attempt) {
		monitoring.TestSubmissionCounter.WithLabelValues("rejected_max_attempts").Inc()
		return &SubmitOutcome{
			Status:  SubmitRejectedMaxAttempt,
			Message: util.ErrMaxAttemptsExceeded.Error(),
		}, nil
	}

	// 规范化：校验错误逐题返回，不消耗尝试次数
	responses, fieldErrors := NormalizeSubmission(test.Questions, raw)
	if len(fieldErrors) > 0 {
		monitoring.TestSubmissionCounter.WithLabelValues("validation_error").Inc()
		return &SubmitOutcome{
			Status:      SubmitValidationError,
			Message:     "Invalid test submission.",
			FieldErrors: fieldErrors,
		}, nil
	}

	score := ScoreTest(test.Questions, responses)
	passed := ReachedThreshold(score, test.PassingScore)

	answersJSON, err := marshalAnswers(test.Questions, responses)
	if err != nil {
		return nil, err
	}

	result := &model.TestResult{
		StudentID:   studentID,
		LessonID:    lessonID,
		TestID:      testID,
		Score:       score,
		Answers:     answersJSON,
		Attempt:     attempt,
		CompletedAt: time.Now(),
	}

	if err := s.ResultRepo.CreateWithProgress(result, passed); err != nil {
		return nil, err
	}

	outcome := &SubmitOutcome{
		Status:  SubmitAccepted,
		Result:  result,
		Passed:  passed,
		Attempt: attempt,
	}
	if passed {
		outcome.Message = "Test passed! You can now proceed to the next lesson."
		monitoring.TestSubmissionCounter.WithLabelValues("passed").Inc()
		if s.Achievement != nil {
			s.Achievement.OnLessonCompleted(studentID)
			s.Achievement.OnTestPassed(studentID)
		}
	} else {
		outcome.Message = "Test submitted, but you did not pass. Try again."
		monitoring.TestSubmissionCounter.WithLabelValues("failed").Inc()
	}

	logger.Log.Info("test submission scored",
		zap.Uint("studentId", studentID),
		zap.Uint("testId", testID),
		zap.Float64("score", score),
		zap.Int("attempt", attempt),
		zap.Bool("passed", passed))

	return outcome, nil
}

// Results 学生在某课时的历史成绩与聚合统计
func (s *GradingService) Results(studentID, lessonID uint) ([]model.TestResult, *model.ResultStats, error) {
	results, err := s.ResultRepo.FindByStudentAndLesson(studentID, lessonID)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.ResultRepo.Stats(studentID, lessonID)
	if err != nil {
		return nil, nil, err
	}
	return results, stats, nil
}

// marshalAnswers 按题目ID落库存储原始选择，结构对消费方不透明：
// 选择题存选项ID列表，填空题存字符串
func marshalAnswers(questions []model.Question, responses map[uint]NormalizedAnswer) (json.RawMessage, error) {
	stored := make(map[string]interface{}, len(responses))
	for _, q := range questions {
		resp, ok := responses[q.ID]
		if !ok {
			continue
		}
		key := util.FormatUint(q.ID)
		if q.Type == model.FreeText {
			stored[key] = resp.Text
			continue
		}
		ids := make([]uint, 0, len(resp.Selected))
		for _, opt := range q.Options {
			if resp.Selected[opt.ID] {
				ids = append(ids, opt.ID)
			}
		}
		stored[key] = ids
	}
	return json.Marshal(stored)
}
