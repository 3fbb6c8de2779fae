package model

import "time"

// swagger:model Achievement
type Achievement struct {
	BaseModel
	Name        string `gorm:"size:100;unique;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	BadgeImage  string `gorm:"size:255" json:"badgeImage"`
}

func (Achievement) TableName() string {
	return "achievements"
}

type UserAchievement struct {
	BaseModel
	UserID        uint         `gorm:"uniqueIndex:idx_user_achievement;type:bigint unsigned" json:"userId"`
	AchievementID uint         `gorm:"uniqueIndex:idx_user_achievement;type:bigint unsigned" json:"achievementId"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	AwardedAt     time.Time    `json:"awardedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
