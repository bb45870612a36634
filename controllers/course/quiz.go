package controllers

import (
	"log"
	"time"

	"bibleapp/database"
	"bibleapp/middleware"
	"bibleapp/models"
	courseModels "bibleapp/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateQuiz creates a quiz with its questions and options in one
// transaction; a failed option insert rolls back the whole quiz.
func CreateQuiz(c *fiber.Ctx) error {
	reqData := new(struct {
		CourseID    uint   `json:"course_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		CreatedBy   uint   `json:"created_by"`
		Time        *int   `json:"time"`
		Questions   []struct {
			QuestionText string `json:"question_text"`
			QuestionType string `json:"question_type"`
			Options      []struct {
				OptionText string `json:"option_text"`
				IsCorrect  bool   `json:"is_correct"`
			} `json:"options"`
		} `json:"questions"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var quiz courseModels.Quiz

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		quiz = courseModels.Quiz{
			CourseID:    reqData.CourseID,
			Title:       reqData.Title,
			Description: reqData.Description,
			Time:        reqData.Time,
			CreatedBy:   reqData.CreatedBy,
		}
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}

		for _, q := range reqData.Questions {
			question := courseModels.QuizQuestion{
				QuizID:       quiz.ID,
				QuestionText: q.QuestionText,
				QuestionType: q.QuestionType,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}

			for _, opt := range q.Options {
				option := courseModels.QuizOption{
					QuestionID: question.ID,
					OptionText: opt.OptionText,
					IsCorrect:  opt.IsCorrect,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Quiz creation error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"quiz_id": quiz.ID,
		"message": "Quiz created successfully",
	})
}

// GetChurchQuizzes lists every quiz of a church's courses
func GetChurchQuizzes(c *fiber.Ctx) error {
	churchID := c.Query("church_Id")
	if churchID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "church_id is required", nil)
	}

	var church models.Church
	if err := database.Database.Db.First(&church, churchID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Church not found", nil)
	}

	var rows []struct {
		QuizID          uint      `json:"quiz_id"`
		QuizTitle       string    `json:"quiz_title"`
		QuizDescription string    `json:"quiz_description"`
		Time            *int      `json:"time"`
		QuizCreatedAt   time.Time `json:"quiz_created_at"`
		CourseTitle     string    `json:"course_title"`
		ChurchName      string    `json:"church_name"`
	}

	err := database.Database.Db.Model(&courseModels.Quiz{}).
		Select("quizzes.id AS quiz_id, quizzes.title AS quiz_title, quizzes.description AS quiz_description, quizzes.time, quizzes.created_at AS quiz_created_at, courses.title AS course_title, courses.church AS church_name").
		Joins("JOIN courses ON courses.id = quizzes.course_id").
		Where("courses.church = ?", church.ChurchName).
		Order("quizzes.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Fetching quizzes error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes", nil)
	}

	return c.JSON(rows)
}

// GetClientQuizzes lists all quizzes annotated with the user's attempt count
// and pass state, plus the derived can_attempt flag the UI keys on.
func GetClientQuizzes(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId is required", nil)
	}

	var quizzes []courseModels.Quiz
	if err := database.Database.Db.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes", nil)
	}

	db := database.Database.Db
	result := make([]fiber.Map, 0, len(quizzes))
	for _, quiz := range quizzes {
		var totalAttempts int64
		db.Model(&courseModels.QuizAttempt{}).Where("user_id = ? AND quiz_id = ?", userID, quiz.ID).Count(&totalAttempts)

		var passedAttempts int64
		db.Model(&courseModels.QuizAttempt{}).Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quiz.ID, true).Count(&passedAttempts)

		passed := passedAttempts > 0
		result = append(result, fiber.Map{
			"quiz_id":        quiz.ID,
			"course_id":      quiz.CourseID,
			"title":          quiz.Title,
			"description":    quiz.Description,
			"time":           quiz.Time,
			"total_attempts": totalAttempts,
			"passed":         passed,
			"can_attempt":    !passed && totalAttempts < maxQuizAttempts,
			"attempted":      totalAttempts > 0,
		})
	}

	return c.JSON(result)
}

// GetQuizzes lists the quizzes of one course
func GetQuizzes(c *fiber.Ctx) error {
	courseID := c.Query("course_id")
	if courseID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "course_id is required", nil)
	}

	var quizzes []courseModels.Quiz
	if err := database.Database.Db.Where("course_id = ?", courseID).Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes", nil)
	}
	return c.JSON(quizzes)
}

// GetQuizQuestions returns a quiz's questions with their options grouped
func GetQuizQuestions(c *fiber.Ctx) error {
	quizID := c.Query("quiz_id")
	courseID := c.Query("course_id")
	if quizID == "" || courseID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "quiz_id and course_id are required", nil)
	}

	db := database.Database.Db

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND course_id = ?", quizID, courseID).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No questions found for this quiz and course", nil)
	}

	var questions []courseModels.QuizQuestion
	if err := db.Where("quiz_id = ?", quiz.ID).Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz questions", nil)
	}
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No questions found for this quiz and course", nil)
	}

	type questionWithOptions struct {
		QuestionID   uint                      `json:"question_id"`
		QuizID       uint                      `json:"quiz_id"`
		QuestionText string                    `json:"question_text"`
		QuestionType string                    `json:"question_type"`
		Options      []courseModels.QuizOption `json:"options"`
	}

	result := make([]questionWithOptions, 0, len(questions))
	for _, q := range questions {
		var options []courseModels.QuizOption
		db.Where("question_id = ?", q.ID).Find(&options)
		result = append(result, questionWithOptions{
			QuestionID:   q.ID,
			QuizID:       q.QuizID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      options,
		})
	}

	return c.JSON(result)
}

// DeleteQuiz removes a quiz with its questions, options and attempts
func DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	db := database.Database.Db

	var quiz courseModels.Quiz
	if err := db.First(&quiz, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&courseModels.QuizQuestion{}).Where("quiz_id = ?", quiz.ID).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Unscoped().Where("question_id IN ?", questionIDs).Delete(&courseModels.QuizOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&courseModels.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&courseModels.QuizAttempt{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&courseModels.Quiz{}, quiz.ID).Error
	})
	if err != nil {
		log.Printf("Error deleting quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully", nil)
}

// GetQuizStatus reports whether the quiz is its course's final gate: the
// quiz created last for the course.
func GetQuizStatus(c *fiber.Ctx) error {
	quizID := c.QueryInt("quizId")
	courseID := c.Query("courseId")
	if quizID == 0 || courseID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "quizId and courseId are required", nil)
	}

	var lastQuiz courseModels.Quiz
	if err := database.Database.Db.Where("course_id = ?", courseID).Order("id DESC").First(&lastQuiz).Error; err != nil {
		return c.JSON(fiber.Map{"isLastQuiz": false})
	}

	return c.JSON(fiber.Map{"isLastQuiz": lastQuiz.ID == uint(quizID)})
}

// GetQuizResults returns the user's latest attempt on a quiz with its frozen
// historical outcome, plus whether the same score would pass under the
// course's CURRENT criterion.
func GetQuizResults(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("quizId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var attempt courseModels.QuizAttempt
	if err := db.Where("quiz_id = ? AND user_id = ?", quizID, userID).Order("attempted_at DESC").First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No attempts found", nil)
	}

	var quiz courseModels.Quiz
	if err := db.First(&quiz, attempt.QuizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz results", nil)
	}

	var course courseModels.Course
	if err := db.First(&course, quiz.CourseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz results", nil)
	}

	var totalQuestions int64
	db.Model(&courseModels.QuizQuestion{}).Where("quiz_id = ?", quiz.ID).Count(&totalQuestions)

	wouldPassNow := false
	if course.PassCriteria != nil && totalQuestions > 0 {
		wouldPassNow = float64(attempt.Score)/float64(totalQuestions)*100 >= *course.PassCriteria
	}

	return c.JSON(fiber.Map{
		"attempt":            attempt,
		"course_id":          quiz.CourseID,
		"historicallyPassed": attempt.Passed,
		"wouldPassNow":       wouldPassNow,
	})
}
