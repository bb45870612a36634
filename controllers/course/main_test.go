package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bibleapp/config"
	"bibleapp/database"
	"bibleapp/models"
	courseModels "bibleapp/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB swaps the global database for an in-memory sqlite instance.
// A single connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Church{},
		&models.Image{},
		&models.UserLoginHistory{},
		&courseModels.Course{},
		&courseModels.Post{},
		&courseModels.Quiz{},
		&courseModels.QuizQuestion{},
		&courseModels.QuizOption{},
		&courseModels.QuizAttempt{},
		&courseModels.CourseProgress{},
		&courseModels.ChapterCompletion{},
		&courseModels.Certification{},
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func httpGet(target string) *http.Request {
	return httptest.NewRequest("GET", target, nil)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// seedQuiz creates a course with the given pass criterion and a quiz of
// questionCount questions, each with one correct and one wrong option.
// It returns the quiz plus the correct and wrong option ids.
func seedQuiz(t *testing.T, db *gorm.DB, passCriteria *float64, questionCount int) (courseModels.Course, courseModels.Quiz, []uint, []uint) {
	t.Helper()

	course := courseModels.Course{
		Title:        "Foundations of Faith",
		Church:       "Grace Chapel",
		CreatedBy:    1,
		PassCriteria: passCriteria,
	}
	require.NoError(t, db.Create(&course).Error)

	quiz := courseModels.Quiz{
		CourseID:  course.ID,
		Title:     "Chapter Review",
		CreatedBy: 1,
	}
	require.NoError(t, db.Create(&quiz).Error)

	var correct, wrong []uint
	for i := 0; i < questionCount; i++ {
		question := courseModels.QuizQuestion{
			QuizID:       quiz.ID,
			QuestionText: "Question",
			QuestionType: "single",
		}
		require.NoError(t, db.Create(&question).Error)

		right := courseModels.QuizOption{QuestionID: question.ID, OptionText: "Right", IsCorrect: true}
		require.NoError(t, db.Create(&right).Error)
		correct = append(correct, right.ID)

		bad := courseModels.QuizOption{QuestionID: question.ID, OptionText: "Wrong", IsCorrect: false}
		require.NoError(t, db.Create(&bad).Error)
		wrong = append(wrong, bad.ID)
	}

	return course, quiz, correct, wrong
}

func floatPtr(f float64) *float64 { return &f }
