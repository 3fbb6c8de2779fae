package repository

import (
	"js_learning_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FirstOrCreate(name, description string) (*model.Achievement, error) {
	var a model.Achievement
	// 结构体条件同时作为创建属性，未命中时 Name 随插入落库
	err := r.DB.Where(model.Achievement{Name: name}).
		Attrs(model.Achievement{Description: description}).
		FirstOrCreate(&a).Error
	return &a, err
}

// Award 幂等授予：(user, achievement) 唯一
func (r *AchievementRepository) Award(userID, achievementID uint) error {
	var existing model.UserAchievement
	err := r.DB.Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.DB.Create(&model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		AwardedAt:     time.Now(),
	}).Error
}

func (r *AchievementRepository) FindByUser(userID uint) ([]model.UserAchievement, error) {
	var rows []model.UserAchievement
	err := r.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("awarded_at desc").Find(&rows).Error
	return rows, err
}
