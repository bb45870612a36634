package controllers

import (
	"errors"
	"log"
	"math"
	"time"

	"bibleapp/database"
	"bibleapp/middleware"
	courseModels "bibleapp/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// maxQuizAttempts caps attempts per user per quiz until a pass
const maxQuizAttempts = 3

var (
	errAlreadyPassed     = errors.New("quiz already passed")
	errAttemptsExhausted = errors.New("maximum attempts reached")
	errQuizNotFound      = errors.New("quiz not found")
)

// SubmitQuizAttempt scores a submission and records the attempt. The
// eligibility checks, scoring and insert all run inside one transaction so a
// concurrent submission cannot slip past the attempt cap or the passed lock.
// An empty answer set is rejected up front; it must never burn an attempt.
func SubmitQuizAttempt(c *fiber.Ctx) error {
	reqData := new(struct {
		UserID   uint `json:"user_id"`
		QuizID   uint `json:"quiz_id"`
		CourseID uint `json:"courseId"`
		Answers  []struct {
			QuestionID       uint `json:"question_id"`
			SelectedOptionID uint `json:"selected_option_id"`
		} `json:"answers"`
	})

	if err := c.BodyParser(reqData); err != nil ||
		reqData.UserID == 0 || reqData.QuizID == 0 || reqData.CourseID == 0 ||
		len(reqData.Answers) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid input data", nil)
	}

	selectedOptions := make([]uint, 0, len(reqData.Answers))
	for _, a := range reqData.Answers {
		selectedOptions = append(selectedOptions, a.SelectedOptionID)
	}

	var (
		attempt        courseModels.QuizAttempt
		totalQuestions int64
	)

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var quiz courseModels.Quiz
		if err := tx.Where("id = ? AND course_id = ?", reqData.QuizID, reqData.CourseID).First(&quiz).Error; err != nil {
			return errQuizNotFound
		}

		var course courseModels.Course
		if err := tx.First(&course, quiz.CourseID).Error; err != nil {
			return errQuizNotFound
		}

		var passedCount int64
		if err := tx.Model(&courseModels.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ? AND passed = ?", reqData.UserID, reqData.QuizID, true).
			Count(&passedCount).Error; err != nil {
			return err
		}
		if passedCount > 0 {
			return errAlreadyPassed
		}

		var attemptCount int64
		if err := tx.Model(&courseModels.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ?", reqData.UserID, reqData.QuizID).
			Count(&attemptCount).Error; err != nil {
			return err
		}
		if attemptCount >= maxQuizAttempts {
			return errAttemptsExhausted
		}

		if err := tx.Model(&courseModels.QuizQuestion{}).
			Where("quiz_id = ?", reqData.QuizID).
			Count(&totalQuestions).Error; err != nil {
			return err
		}

		// Score = how many of the selected options are correct options of
		// this quiz. Unanswered questions simply contribute nothing.
		var score int64
		if err := tx.Model(&courseModels.QuizOption{}).
			Joins("JOIN quiz_questions ON quiz_questions.id = quiz_options.question_id").
			Where("quiz_questions.quiz_id = ? AND quiz_options.id IN ? AND quiz_options.is_correct = ?",
				reqData.QuizID, selectedOptions, true).
			Count(&score).Error; err != nil {
			return err
		}

		scorePercentage := 0.0
		if totalQuestions > 0 {
			scorePercentage = float64(score) / float64(totalQuestions) * 100
		}

		// Snapshot the criterion in force at submission time. A course with
		// no criterion set cannot be passed yet.
		passCriteria := 0.0
		passed := false
		if course.PassCriteria != nil {
			passCriteria = *course.PassCriteria
			passed = scorePercentage >= passCriteria
		}

		attempt = courseModels.QuizAttempt{
			UserID:                reqData.UserID,
			QuizID:                reqData.QuizID,
			Score:                 int(score),
			Passed:                passed,
			PassCriteriaAtAttempt: passCriteria,
			AttemptedAt:           time.Now(),
		}
		return tx.Create(&attempt).Error
	})

	switch {
	case err == errAlreadyPassed:
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You have already passed this quiz.", nil)
	case err == errAttemptsExhausted:
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You have reached the maximum number of attempts for this quiz.", nil)
	case err == errQuizNotFound:
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
	case err != nil:
		log.Printf("Error submitting quiz attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz attempt", nil)
	}

	scorePercentage := 0.0
	if totalQuestions > 0 {
		scorePercentage = math.Round(float64(attempt.Score)/float64(totalQuestions)*10000) / 100
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"score":           attempt.Score,
		"scorePercentage": scorePercentage,
		"totalQuestions":  totalQuestions,
		"passed":          attempt.Passed,
		"passCriteria":    attempt.PassCriteriaAtAttempt,
	})
}

// CanAttemptQuiz reports whether the user may take another attempt and how
// many remain.
func CanAttemptQuiz(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("quizId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}
	userID := c.Query("userId")
	if userID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId is required", nil)
	}

	db := database.Database.Db

	var passedCount int64
	if err := db.Model(&courseModels.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quizID, true).
		Count(&passedCount).Error; err != nil {
		log.Printf("Error checking attempt eligibility: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check attempt eligibility", nil)
	}
	if passedCount > 0 {
		return c.JSON(fiber.Map{
			"canAttempt": false,
			"message":    "You have already passed this quiz.",
		})
	}

	var attemptCount int64
	if err := db.Model(&courseModels.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&attemptCount).Error; err != nil {
		log.Printf("Error checking attempt eligibility: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check attempt eligibility", nil)
	}

	if attemptCount < maxQuizAttempts {
		return c.JSON(fiber.Map{
			"canAttempt":        true,
			"remainingAttempts": maxQuizAttempts - attemptCount,
		})
	}

	return c.JSON(fiber.Map{
		"canAttempt": false,
		"message":    "You have reached the maximum number of attempts for this quiz.",
	})
}

// ResetQuizAttempts clears a user's failed attempts on a quiz so they can try
// again. Passed attempts stay: a pass is a permanent record, not something an
// admin reset should erase.
func ResetQuizAttempts(c *fiber.Ctx) error {
	reqData := new(struct {
		UserID uint `json:"userId"`
		QuizID uint `json:"quizId"`
	})

	if err := c.BodyParser(reqData); err != nil || reqData.UserID == 0 || reqData.QuizID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId and quizId are required", nil)
	}

	result := database.Database.Db.Unscoped().
		Where("user_id = ? AND quiz_id = ? AND passed = ?", reqData.UserID, reqData.QuizID, false).
		Delete(&courseModels.QuizAttempt{})
	if result.Error != nil {
		log.Printf("Error resetting quiz attempts: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset quiz attempts", nil)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"message":         "Quiz attempts reset successfully",
		"deletedAttempts": result.RowsAffected,
	})
}

// GetQuizAttempts lists a church's attempts with user, quiz and course
// context for the admin dashboard.
func GetQuizAttempts(c *fiber.Ctx) error {
	church := c.Query("church")
	if church == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "church is required", nil)
	}

	var rows []struct {
		AttemptID             uint      `json:"attempt_id"`
		UserID                uint      `json:"user_id"`
		FirstName             string    `json:"first_name"`
		LastName              string    `json:"last_name"`
		Email                 string    `json:"email"`
		QuizID                uint      `json:"quiz_id"`
		QuizTitle             string    `json:"quiz_title"`
		CourseTitle           string    `json:"course_title"`
		Score                 int       `json:"score"`
		Passed                bool      `json:"passed"`
		PassCriteriaAtAttempt float64   `json:"pass_criteria_at_attempt"`
		AttemptedAt           time.Time `json:"attempted_at"`
	}

	err := database.Database.Db.Model(&courseModels.QuizAttempt{}).
		Select("quiz_attempts.id AS attempt_id, quiz_attempts.user_id, users.first_name, users.last_name, users.email, quiz_attempts.quiz_id, quizzes.title AS quiz_title, courses.title AS course_title, quiz_attempts.score, quiz_attempts.passed, quiz_attempts.pass_criteria_at_attempt, quiz_attempts.attempted_at").
		Joins("JOIN users ON users.id = quiz_attempts.user_id").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Joins("JOIN courses ON courses.id = quizzes.course_id").
		Where("courses.church = ?", church).
		Order("quiz_attempts.attempted_at DESC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error fetching quiz attempts: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz attempts", nil)
	}

	return c.JSON(rows)
}
