package controllers

import (
	"log"
	"path/filepath"
	"time"

	"bibleapp/database"
	"bibleapp/middleware"
	courseModels "bibleapp/models/course"
	"bibleapp/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var uploadsDir = filepath.Join("public", "uploads")

// postRow is a chapter joined with its course title for list views
type postRow struct {
	ID          uint      `json:"id"`
	CourseID    uint      `json:"course_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Language    string    `json:"language"`
	Church      string    `json:"church"`
	CreatedBy   uint      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	CourseTitle string    `json:"course_title"`
}

// GetPosts lists all chapters of a church's courses, newest first
func GetPosts(c *fiber.Ctx) error {
	church := c.Query("church")

	var rows []postRow
	err := database.Database.Db.Model(&courseModels.Post{}).
		Select("posts.id, posts.course_id, posts.title, posts.content, posts.language, posts.church, posts.created_by, posts.created_at, courses.title AS course_title").
		Joins("JOIN courses ON courses.id = posts.course_id").
		Where("courses.church = ?", church).
		Order("posts.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Database error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch posts", nil)
	}
	return c.JSON(rows)
}

// GetCoursePosts lists the chapters of one course, newest first
func GetCoursePosts(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var rows []postRow
	err = database.Database.Db.Model(&courseModels.Post{}).
		Select("posts.id, posts.course_id, posts.title, posts.content, posts.language, posts.church, posts.created_by, posts.created_at, courses.title AS course_title").
		Joins("JOIN courses ON courses.id = posts.course_id").
		Where("posts.course_id = ?", courseID).
		Order("posts.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Database error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch posts for course", nil)
	}
	return c.JSON(rows)
}

// CreatePost creates a chapter. Inline base64 images in the HTML content are
// written to the uploads dir and the content rewritten to reference them.
func CreatePost(c *fiber.Ctx) error {
	reqData := new(struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		Church    string `json:"church"`
		Language  string `json:"language"`
		CourseID  uint   `json:"course_id"`
		CreatedBy uint   `json:"createdBy"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	content, err := utils.ExtractInlineImages(reqData.Content, uploadsDir)
	if err != nil {
		log.Printf("Error extracting post images: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post", nil)
	}

	createdBy := reqData.CreatedBy
	if createdBy == 0 {
		createdBy = 1
	}

	post := courseModels.Post{
		Title:     reqData.Title,
		Content:   content,
		Church:    reqData.Church,
		Language:  reqData.Language,
		CourseID:  reqData.CourseID,
		CreatedBy: createdBy,
	}

	if err := database.Database.Db.Create(&post).Error; err != nil {
		log.Printf("Error creating post: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create post", nil)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"id":        post.ID,
		"title":     post.Title,
		"content":   post.Content,
		"language":  post.Language,
		"church":    post.Church,
		"course_id": post.CourseID,
		"createdBy": post.CreatedBy,
	})
}

// UpdatePost updates a chapter's title, content and course
func UpdatePost(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid post id!", nil)
	}

	reqData := new(struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		CourseID uint   `json:"course_id"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	result := database.Database.Db.Model(&courseModels.Post{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{
			"title":     reqData.Title,
			"content":   reqData.Content,
			"course_id": reqData.CourseID,
		})
	if result.Error != nil {
		log.Printf("Error updating post: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error", nil)
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeletePost removes a chapter and its completion markers
func DeletePost(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid post id!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("post_id = ?", postID).Delete(&courseModels.ChapterCompletion{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&courseModels.Post{}, postID).Error
	})
	if err != nil {
		log.Printf("Error deleting post: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error", nil)
	}

	return c.JSON(fiber.Map{"success": true})
}
