package progressValidator

import (
	"bibleapp/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateProgress validator middleware
func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID   uint `json:"userId"`
			CourseID uint `json:"courseId"`
			PostID   uint `json:"postId"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["userId"] = "User id is required!"
		}

		if reqData.CourseID == 0 {
			errors["courseId"] = "Course id is required!"
		}

		if reqData.PostID == 0 {
			errors["postId"] = "Post id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// CourseProgressQuery validator middleware
func CourseProgressQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		if c.Query("userId") == "" {
			errors["userId"] = "User id is required!"
		}

		if c.Query("courseId") == "" {
			errors["courseId"] = "Course id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
