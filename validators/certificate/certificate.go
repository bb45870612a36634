package certificateValidator

import (
	"bibleapp/middleware"

	"github.com/gofiber/fiber/v2"
)

// GenerateCertificate validator middleware
func GenerateCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"courseId"`
			UserID   uint `json:"userId"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == 0 {
			errors["courseId"] = "Course id is required!"
		}

		if reqData.UserID == 0 {
			errors["userId"] = "User id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// UpdateTemplate validator middleware
func UpdateTemplate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		if c.FormValue("courseId") == "" {
			errors["courseId"] = "Course id is required!"
		}

		if _, err := c.FormFile("template"); err != nil {
			errors["template"] = "Template file is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
