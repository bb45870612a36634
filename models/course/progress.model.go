package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseProgress keeps one row per (user, course). Counters are always
// recomputed from the chapter_completions set inside a transaction, never
// incremented in place.
type CourseProgress struct {
	gorm.Model
	UserID           uint      `gorm:"not null;uniqueIndex:idx_progress_user_course" json:"user_id"`
	CourseID         uint      `gorm:"not null;uniqueIndex:idx_progress_user_course" json:"course_id"`
	CompletedModules int       `gorm:"default:0" json:"completed_modules"`
	TotalModules     int       `gorm:"default:0" json:"total_modules"`
	IsCompleted      bool      `gorm:"default:false" json:"is_completed"`
	LastAccessed     time.Time `json:"last_accessed"`
}

// ChapterCompletion is an append-only completion marker, unique per
// (user, post).
type ChapterCompletion struct {
	gorm.Model
	UserID      uint      `gorm:"not null;uniqueIndex:idx_completion_user_post" json:"user_id"`
	CourseID    uint      `gorm:"index;not null" json:"course_id"`
	PostID      uint      `gorm:"not null;uniqueIndex:idx_completion_user_post" json:"post_id"`
	CompletedAt time.Time `json:"completed_at"`
}
