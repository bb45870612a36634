package course

import (
	"time"

	"gorm.io/gorm"
)

// QuizAttempt is immutable once written. PassCriteriaAtAttempt freezes the
// course's pass criterion at submission time so historical pass/fail status
// survives later criterion changes.
type QuizAttempt struct {
	gorm.Model
	UserID                uint      `gorm:"index;not null" json:"user_id"`
	QuizID                uint      `gorm:"index;not null" json:"quiz_id"`
	Score                 int       `json:"score"` // count of correct selections
	Passed                bool      `gorm:"default:false" json:"passed"`
	PassCriteriaAtAttempt float64   `json:"pass_criteria_at_attempt"`
	AttemptedAt           time.Time `json:"attempted_at"`
}
