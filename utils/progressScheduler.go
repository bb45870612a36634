package utils

import (
	"log"
	"time"

	"bibleapp/database"
	courseModels "bibleapp/models/course"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeProgressScheduler sets up the nightly progress reconciliation job
func InitializeProgressScheduler() {
	log.Println("[PROGRESS-SCHEDULER] Initializing progress scheduler...")

	c := cron.New()

	// Run daily at 3 AM, outside class hours
	c.AddFunc("0 3 * * *", func() {
		log.Println("[PROGRESS-SCHEDULER] Running nightly progress reconciliation...")
		ReconcileCourseProgress()
	})

	c.Start()
	log.Println("[PROGRESS-SCHEDULER] Progress scheduler started - runs daily at 3 AM")
}

// ReconcileCourseProgress recomputes every course_progress row from the
// chapter_completions set. Counters can drift when chapters are deleted
// after users completed them; recomputing from source repairs that.
func ReconcileCourseProgress() {
	db := database.Database.Db

	var rows []courseModels.CourseProgress
	if err := db.Find(&rows).Error; err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error fetching progress rows: %v", err)
		return
	}

	repaired := 0
	for _, row := range rows {
		err := db.Transaction(func(tx *gorm.DB) error {
			var total, completed int64
			if err := tx.Model(&courseModels.Post{}).
				Where("course_id = ?", row.CourseID).Count(&total).Error; err != nil {
				return err
			}
			if err := tx.Model(&courseModels.ChapterCompletion{}).
				Where("user_id = ? AND course_id = ?", row.UserID, row.CourseID).
				Count(&completed).Error; err != nil {
				return err
			}

			if int(completed) == row.CompletedModules && int(total) == row.TotalModules {
				return nil
			}

			repaired++
			return tx.Model(&courseModels.CourseProgress{}).
				Where("user_id = ? AND course_id = ?", row.UserID, row.CourseID).
				Updates(map[string]interface{}{
					"completed_modules": completed,
					"total_modules":     total,
					"is_completed":      completed == total,
					"last_accessed":     time.Now(),
				}).Error
		})
		if err != nil {
			log.Printf("[PROGRESS-SCHEDULER] Error reconciling user %d course %d: %v", row.UserID, row.CourseID, err)
		}
	}

	log.Printf("[PROGRESS-SCHEDULER] Reconciliation finished, %d rows repaired", repaired)
}
