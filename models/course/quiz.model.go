package course

import "gorm.io/gorm"

// Quiz belongs to a course. The quiz created last gates course completion.
type Quiz struct {
	gorm.Model
	CourseID    uint   `gorm:"index;not null" json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        *int   `json:"time"` // time limit in minutes, nil = untimed
	CreatedBy   uint   `json:"created_by"`
}

// QuizQuestion has at least one option; several may be marked correct.
type QuizQuestion struct {
	gorm.Model
	QuizID       uint   `gorm:"index;not null" json:"quiz_id"`
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
}

type QuizOption struct {
	gorm.Model
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
}
