package quizValidator

import (
	"strings"

	"bibleapp/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateQuiz validator middleware
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID  uint   `json:"course_id"`
			Title     string `json:"title"`
			Questions []struct {
				QuestionText string `json:"question_text"`
				Options      []struct {
					OptionText string `json:"option_text"`
				} `json:"options"`
			} `json:"questions"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == 0 {
			errors["course_id"] = "Course id is required!"
		}

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}
		for _, q := range reqData.Questions {
			if strings.TrimSpace(q.QuestionText) == "" {
				errors["questions"] = "Every question needs text!"
				break
			}
			if len(q.Options) < 2 {
				errors["questions"] = "Every question needs at least two options!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// SubmitQuizAttempt validator middleware. An attempt submission must name
// the user, quiz and course and carry at least one answer; an empty answer
// set never reaches scoring, so it cannot burn a capped attempt.
func SubmitQuizAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID   uint `json:"user_id"`
			QuizID   uint `json:"quiz_id"`
			CourseID uint `json:"courseId"`
			Answers  []struct {
				SelectedOptionID uint `json:"selected_option_id"`
			} `json:"answers"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid input data", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User id is required!"
		}

		if reqData.QuizID == 0 {
			errors["quiz_id"] = "Quiz id is required!"
		}

		if reqData.CourseID == 0 {
			errors["courseId"] = "Course id is required!"
		}

		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// ResetQuizAttempts validator middleware
func ResetQuizAttempts() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint `json:"userId"`
			QuizID uint `json:"quizId"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["userId"] = "User id is required!"
		}

		if reqData.QuizID == 0 {
			errors["quizId"] = "Quiz id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
