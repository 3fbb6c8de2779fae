package service

import (
	"js_learning_backend/internal/repository"
	"js_learning_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	achievementFirstLesson = "First lesson completed"
	achievementFirstPass   = "First test passed"
)

// AchievementService 完成课时/通过测验时的徽章授予，失败只记日志不影响主流程
type AchievementService struct {
	Repo     *repository.AchievementRepository
	Progress *repository.ProgressRepository
}

func NewAchievementService(repo *repository.AchievementRepository, progressRepo *repository.ProgressRepository) *AchievementService {
	return &AchievementService{Repo: repo, Progress: progressRepo}
}

// OnLessonCompleted 第一个完成的课时授予徽章
func (s *AchievementService) OnLessonCompleted(studentID uint) {
	count, err := s.Progress.CountCompleted(studentID)
	if err != nil {
		logger.Log.Error("achievement check failed", zap.Error(err))
		return
	}
	if count != 1 {
		return
	}
	s.award(studentID, achievementFirstLesson, "Completed your first lesson")
}

func (s *AchievementService) OnTestPassed(studentID uint) {
	s.award(studentID, achievementFirstPass, "Passed your first test")
}

func (s *AchievementService) award(studentID uint, name, description string) {
	achievement, err := s.Repo.FirstOrCreate(name, description)
	if err != nil {
		logger.Log.Error("achievement lookup failed", zap.Error(err), zap.String("name", name))
		return
	}
	if err := s.Repo.Award(studentID, achievement.ID); err != nil {
		logger.Log.Error("achievement award failed", zap.Error(err), zap.String("name", name))
	}
}
