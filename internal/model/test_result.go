package model

import (
	"encoding/json"
	"time"
)

// TestResult 一次已评分的答题记录。同一 (student, lesson, test) 的多次作答
// 追加为多行，attempt 单调递增，不复用。
// swagger:model TestResult
type TestResult struct {
	BaseModel
	StudentID   uint            `gorm:"index;type:bigint unsigned" json:"studentId"`
	Student     *User           `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	LessonID    uint            `gorm:"index;type:bigint unsigned" json:"lessonId"`
	TestID      uint            `gorm:"index;type:bigint unsigned" json:"testId"`
	Score       float64         `gorm:"not null" json:"score"` // 百分比 0-100
	Answers     json.RawMessage `gorm:"type:json" json:"answers"`
	Attempt     int             `gorm:"default:1" json:"attempt"`
	CompletedAt time.Time       `json:"completedAt"`
}

func (TestResult) TableName() string {
	return "test_results"
}

// ResultStats 聚合统计，由仓储直接在持久化行上计算
type ResultStats struct {
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}
