package controllers

import (
	"log"
	"net/url"
	"time"

	"bibleapp/database"
	"bibleapp/middleware"
	courseModels "bibleapp/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateCourse creates a new course for a church
func CreateCourse(c *fiber.Ctx) error {
	reqData := new(struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		CreatedBy   uint   `json:"created_by"`
		ImageID     *uint  `json:"imgId"`
		Church      string `json:"church"`
		Language    string `json:"language"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	course := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		CreatedBy:   reqData.CreatedBy,
		ImageID:     reqData.ImageID,
		Church:      reqData.Church,
		Language:    reqData.Language,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Course creation error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"course_id": course.ID,
		"message":   "Course created successfully",
	})
}

// GetCourses lists a church's courses, newest first
func GetCourses(c *fiber.Ctx) error {
	church := c.Query("church")

	var courses []courseModels.Course
	if err := database.Database.Db.Where("church = ?", church).Order("created_at DESC").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses", nil)
	}
	return c.JSON(courses)
}

// courseDependents names every table holding rows owned by a course, leaves
// first. Cascade deletes walk this list instead of hand-ordering statements
// per call site.
type dependentTable struct {
	model  interface{}
	column string // foreign key column
	scope  string // "course", "quiz" or "question"
}

var courseDependents = []dependentTable{
	{&courseModels.Certification{}, "course_id", "course"},
	{&courseModels.ChapterCompletion{}, "course_id", "course"},
	{&courseModels.CourseProgress{}, "course_id", "course"},
	{&courseModels.QuizAttempt{}, "quiz_id", "quiz"},
	{&courseModels.QuizOption{}, "question_id", "question"},
	{&courseModels.QuizQuestion{}, "quiz_id", "quiz"},
	{&courseModels.Quiz{}, "course_id", "course"},
	{&courseModels.Post{}, "course_id", "course"},
	{&courseModels.Course{}, "id", "course"},
}

// deleteCoursesCascade removes the given courses and everything they own
// inside the supplied transaction.
func deleteCoursesCascade(tx *gorm.DB, courseIDs []uint) error {
	if len(courseIDs) == 0 {
		return nil
	}

	var quizIDs []uint
	if err := tx.Model(&courseModels.Quiz{}).Where("course_id IN ?", courseIDs).Pluck("id", &quizIDs).Error; err != nil {
		return err
	}

	var questionIDs []uint
	if len(quizIDs) > 0 {
		if err := tx.Model(&courseModels.QuizQuestion{}).Where("quiz_id IN ?", quizIDs).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
	}

	idsFor := map[string][]uint{
		"course":   courseIDs,
		"quiz":     quizIDs,
		"question": questionIDs,
	}

	for _, dep := range courseDependents {
		ids := idsFor[dep.scope]
		if len(ids) == 0 {
			continue
		}
		if err := tx.Unscoped().Where(dep.column+" IN ?", ids).Delete(dep.model).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteCourse deletes one course and all associated data. The course must
// belong to the caller's church.
func DeleteCourse(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}
	church := c.Query("church")

	db := database.Database.Db

	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}
	if course.Church != church {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Unauthorized to delete this course", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return deleteCoursesCascade(tx, []uint{course.ID})
	})
	if err != nil {
		log.Printf("Error deleting course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course and all associated data deleted successfully", nil)
}

// DeleteChurchCourses deletes every course of a church and all associated
// data in one transaction.
func DeleteChurchCourses(c *fiber.Ctx) error {
	// Path params arrive percent-encoded; multi-word church names must be
	// decoded before they can match stored rows.
	churchName, err := url.PathUnescape(c.Params("churchName"))
	if err != nil {
		churchName = c.Params("churchName")
	}

	db := database.Database.Db

	var courseIDs []uint
	if err := db.Model(&courseModels.Course{}).Where("church = ?", churchName).Pluck("id", &courseIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete church courses", nil)
	}
	if len(courseIDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No courses found for this church", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return deleteCoursesCascade(tx, courseIDs)
	})
	if err != nil {
		log.Printf("Error deleting church courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete church courses", nil)
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"message":             "All courses and associated data for church \"" + churchName + "\" deleted successfully",
		"deletedCoursesCount": len(courseIDs),
	})
}

// UpdatePassCriteria sets a course's pass criterion (0-100)
func UpdatePassCriteria(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData := new(struct {
		PassCriteria float64 `json:"passCriteria"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.PassCriteria < 0 || reqData.PassCriteria > 100 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Pass criteria must be between 0 and 100", nil)
	}

	now := time.Now()
	result := database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"pass_criteria":        reqData.PassCriteria,
			"pass_criteria_update": &now,
		})
	if result.Error != nil {
		log.Printf("Error updating pass criteria: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update pass criteria", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pass criteria updated successfully", nil)
}

// GetPassMark returns a course's configured pass criterion
func GetPassMark(c *fiber.Ctx) error {
	courseID := c.Query("course_id")
	if courseID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "criteria not yet set", nil)
	}
	if course.PassCriteria == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "criteria not yet set", nil)
	}

	return c.JSON(fiber.Map{"passmark": *course.PassCriteria})
}
