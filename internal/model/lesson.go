package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID    uint   `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Content     string `gorm:"type:text" json:"content"`
	VideoURL    string `gorm:"size:255" json:"videoUrl"`
	Order       int    `gorm:"default:0" json:"order"`
	IsPublished bool   `gorm:"default:true" json:"isPublished"`
}

func (Lesson) TableName() string {
	return "lessons"
}
