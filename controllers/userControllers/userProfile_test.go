package userControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bibleapp/config"
	"bibleapp/database"
	"bibleapp/models"
	courseModels "bibleapp/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

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
		&models.UserLoginHistory{},
		&courseModels.Course{},
		&courseModels.Quiz{},
		&courseModels.QuizQuestion{},
		&courseModels.QuizAttempt{},
		&courseModels.CourseProgress{},
		&courseModels.ChapterCompletion{},
		&courseModels.Certification{},
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func newStreakApp() *fiber.App {
	app := fiber.New()
	app.Post("/update-login-streak", UpdateLoginStreak)
	app.Get("/user-stats/:userId", GetUserStats)
	return app
}

// localMidnight mirrors the handler's day bucketing.
func localMidnight() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

func TestUpdateLoginStreakSameDayIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	app := newStreakApp()

	resp, err := app.Test(jsonRequest(t, "POST", "/update-login-streak", fiber.Map{"userId": 1}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["alreadyLoggedIn"])
	assert.Equal(t, float64(1), body["currentStreak"])

	resp, err = app.Test(jsonRequest(t, "POST", "/update-login-streak", fiber.Map{"userId": 1}))
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["alreadyLoggedIn"])

	var count int64
	db.Model(&models.UserLoginHistory{}).Where("user_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateLoginStreakExtendsFromYesterday(t *testing.T) {
	db := setupTestDB(t)
	app := newStreakApp()

	yesterday := localMidnight().AddDate(0, 0, -1)
	require.NoError(t, db.Create(&models.UserLoginHistory{
		UserID: 1, LoginDate: yesterday, CurrentStreak: 4,
	}).Error)

	resp, err := app.Test(jsonRequest(t, "POST", "/update-login-streak", fiber.Map{"userId": 1}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(5), decodeBody(t, resp)["currentStreak"])
}

func TestUpdateLoginStreakRestartsAfterGap(t *testing.T) {
	db := setupTestDB(t)
	app := newStreakApp()

	lastWeek := localMidnight().AddDate(0, 0, -7)
	require.NoError(t, db.Create(&models.UserLoginHistory{
		UserID: 1, LoginDate: lastWeek, CurrentStreak: 9,
	}).Error)

	resp, err := app.Test(jsonRequest(t, "POST", "/update-login-streak", fiber.Map{"userId": 1}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decodeBody(t, resp)["currentStreak"])
}

func TestGetUsersByChurchDecodesPathParam(t *testing.T) {
	db := setupTestDB(t)
	app := fiber.New()
	app.Get("/users/:churchName", GetUsersByChurch)

	member := models.User{Email: "jane@example.com", Password: "-", FirstName: "Jane", Church: "Grace Chapel"}
	require.NoError(t, db.Create(&member).Error)
	outsider := models.User{Email: "john@example.com", Password: "-", FirstName: "John", Church: "Hope Fellowship"}
	require.NoError(t, db.Create(&outsider).Error)

	// Multi-word church names arrive percent-encoded in the path.
	resp, err := app.Test(httptest.NewRequest("GET", "/users/Grace%20Chapel", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var users []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	require.Len(t, users, 1)
	assert.Equal(t, "jane@example.com", users[0]["email"])
}

func TestGetUserStats(t *testing.T) {
	db := setupTestDB(t)
	app := newStreakApp()

	quiz := courseModels.Quiz{CourseID: 1, Title: "Review", CreatedBy: 1}
	require.NoError(t, db.Create(&quiz).Error)
	for i := 0; i < 4; i++ {
		require.NoError(t, db.Create(&courseModels.QuizQuestion{
			QuizID: quiz.ID, QuestionText: "q", QuestionType: "single",
		}).Error)
	}
	require.NoError(t, db.Create(&courseModels.QuizAttempt{
		UserID: 1, QuizID: quiz.ID, Score: 3, Passed: true, AttemptedAt: time.Now(),
	}).Error)

	for post := uint(1); post <= 2; post++ {
		require.NoError(t, db.Create(&courseModels.ChapterCompletion{
			UserID: 1, CourseID: 1, PostID: post, CompletedAt: time.Now(),
		}).Error)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/user-stats/1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(75), body["highestQuizScore"])
	assert.Equal(t, float64(2), body["totalChaptersCompleted"])
	assert.Equal(t, float64(1), body["loginStreak"])
}
