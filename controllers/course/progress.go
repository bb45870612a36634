package controllers

import (
	"log"
	"time"

	"bibleapp/database"
	"bibleapp/middleware"
	courseModels "bibleapp/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpdateProgress marks a chapter complete and recomputes the course progress
// counters from the source tables. The counters are never incremented in
// place, so replays and concurrent updates converge on the same row.
func UpdateProgress(c *fiber.Ctx) error {
	reqData := new(struct {
		UserID    uint `json:"userId"`
		CourseID  uint `json:"courseId"`
		PostID    uint `json:"postId"`
		Completed bool `json:"completed"`
	})

	if err := c.BodyParser(reqData); err != nil || reqData.UserID == 0 || reqData.CourseID == 0 || reqData.PostID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId, courseId and postId are required", nil)
	}

	if !reqData.Completed {
		return c.JSON(fiber.Map{"success": true})
	}

	var completedModules, totalModules int64

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		completion := courseModels.ChapterCompletion{
			UserID:      reqData.UserID,
			PostID:      reqData.PostID,
			CourseID:    reqData.CourseID,
			CompletedAt: time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error; err != nil {
			return err
		}

		if err := tx.Model(&courseModels.Post{}).
			Where("course_id = ?", reqData.CourseID).
			Count(&totalModules).Error; err != nil {
			return err
		}
		if err := tx.Model(&courseModels.ChapterCompletion{}).
			Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).
			Count(&completedModules).Error; err != nil {
			return err
		}

		now := time.Now()
		progress := courseModels.CourseProgress{
			UserID:           reqData.UserID,
			CourseID:         reqData.CourseID,
			CompletedModules: int(completedModules),
			TotalModules:     int(totalModules),
			IsCompleted:      completedModules == totalModules,
			LastAccessed:     now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"completed_modules": int(completedModules),
				"total_modules":     int(totalModules),
				"is_completed":      completedModules == totalModules,
				"last_accessed":     now,
			}),
		}).Create(&progress).Error
	})
	if err != nil {
		log.Printf("Error updating progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress", nil)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"completedModules": completedModules,
		"totalModules":     totalModules,
	})
}

// GetCourseProgress returns the user's counters for one course. Both numbers
// are recounted from the source tables rather than read off the progress row.
func GetCourseProgress(c *fiber.Ctx) error {
	userID := c.Query("userId")
	courseID := c.Query("courseId")
	if userID == "" || courseID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId and courseId are required", nil)
	}

	db := database.Database.Db

	var totalModules int64
	if err := db.Model(&courseModels.Post{}).Where("course_id = ?", courseID).Count(&totalModules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course progress", nil)
	}

	var completedModules int64
	if err := db.Model(&courseModels.ChapterCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&completedModules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course progress", nil)
	}

	return c.JSON(fiber.Map{
		"completedModules":     completedModules,
		"totalModules":         totalModules,
		"allChaptersCompleted": totalModules > 0 && completedModules == totalModules,
	})
}

// GetUserProgress lists the chapters the user has completed in a course
func GetUserProgress(c *fiber.Ctx) error {
	userID := c.Query("userId")
	courseID := c.Query("courseId")
	if userID == "" || courseID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId and courseId are required", nil)
	}

	var completedChapters []uint
	err := database.Database.Db.Model(&courseModels.ChapterCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Pluck("post_id", &completedChapters).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user progress", nil)
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"completedChapters": completedChapters,
	})
}

// GetChapterStatus reports whether the user has completed one chapter
func GetChapterStatus(c *fiber.Ctx) error {
	userID := c.Query("userId")
	postID := c.Query("postId")
	if userID == "" || postID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId and postId are required", nil)
	}

	var completion courseModels.ChapterCompletion
	err := database.Database.Db.
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&completion).Error
	if err != nil {
		return c.JSON(fiber.Map{"completed": false})
	}

	return c.JSON(fiber.Map{
		"completed":   true,
		"completedAt": completion.CompletedAt,
	})
}
