package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	CreatorID   uint     `gorm:"index;type:bigint unsigned" json:"creatorId"`
	Creator     *User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Image       string   `gorm:"size:255" json:"image"`
	IsActive    bool     `gorm:"default:true" json:"isActive"`
	Lessons     []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment 学生选课记录，(student, course) 唯一
type Enrollment struct {
	BaseModel
	StudentID  uint      `gorm:"uniqueIndex:idx_student_course;type:bigint unsigned" json:"studentId"`
	Student    *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CourseID   uint      `gorm:"uniqueIndex:idx_student_course;type:bigint unsigned" json:"courseId"`
	Course     *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
