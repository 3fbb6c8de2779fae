package model

import "time"

// Progress 每个 (student, lesson) 一行。只有测验达线或手动完成课时才会写入，
// 通过一次之后不会因为后续重考不及格被回退。
// swagger:model Progress
type Progress struct {
	BaseModel
	StudentID   uint       `gorm:"uniqueIndex:idx_student_lesson;type:bigint unsigned" json:"studentId"`
	LessonID    uint       `gorm:"uniqueIndex:idx_student_lesson;type:bigint unsigned" json:"lessonId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (Progress) TableName() string {
	return "progress"
}
