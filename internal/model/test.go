package model

// QuestionType 题目类型，评分引擎按类型做穷举分支
type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	FreeText       QuestionType = "free_text"
)

// Test 课时测验，每个测验属于一个课时
// swagger:model Test
type Test struct {
	BaseModel
	LessonID     uint       `gorm:"index;type:bigint unsigned" json:"lessonId"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	PassingScore int        `gorm:"not null" json:"passingScore"` // 通过线，0-100 百分比
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	Questions    []Question `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

// swagger:model Question
type Question struct {
	BaseModel
	TestID  uint           `gorm:"index;type:bigint unsigned" json:"testId"`
	Text    string         `gorm:"type:text;not null" json:"text"`
	Type    QuestionType   `gorm:"size:20;default:'single_choice'" json:"type"` // single_choice, multiple_choice, free_text
	Points  int            `gorm:"default:1" json:"points"`
	Options []AnswerOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// AnswerOption 选项，free_text 题目用唯一一个 is_correct 选项承载标准答案文本
// swagger:model AnswerOption
type AnswerOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
