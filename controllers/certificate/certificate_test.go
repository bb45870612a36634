package certificateController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bibleapp/config"
	"bibleapp/database"
	"bibleapp/models"
	courseModels "bibleapp/models/course"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTest swaps in an in-memory database and chdirs into a temp dir so the
// public/ tree the handlers write under is isolated per test.
func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	config.LoadConfig()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.CourseProgress{},
		&courseModels.Certification{},
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

func newCertApp() *fiber.App {
	app := fiber.New()
	app.Post("/generate", GenerateCertificate)
	app.Get("/user/:userId", GetUserCertificates)
	app.Get("/verify/:code", VerifyCertificate)
	app.Get("/:courseId/completed-users", GetCompletedUsers)
	return app
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

// seedCourseWithTemplate writes a small template PNG under public/ and wires
// it to a new course.
func seedCourseWithTemplate(t *testing.T, db *gorm.DB) courseModels.Course {
	t.Helper()

	templatePath := filepath.Join(templatesDir, "template.png")
	img := imaging.New(400, 200, color.White)
	require.NoError(t, os.MkdirAll(templatesDir, 0755))
	require.NoError(t, imaging.Save(img, templatePath))

	course := courseModels.Course{
		Title:          "Foundations of Faith",
		Church:         "Grace Chapel",
		CreatedBy:      1,
		CertificateURL: publicURL(templatePath),
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Email: "jane@example.com", Password: "-", FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestGenerateCertificateMissingTemplateHasNoSideEffects(t *testing.T) {
	db := setupTest(t)
	app := newCertApp()

	course := courseModels.Course{Title: "No Template", Church: "Grace Chapel", CreatedBy: 1}
	require.NoError(t, db.Create(&course).Error)
	user := seedUser(t, db)

	resp, err := app.Test(jsonRequest(t, "POST", "/generate", fiber.Map{
		"courseId": course.ID,
		"userId":   user.ID,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var count int64
	db.Model(&courseModels.Certification{}).Count(&count)
	assert.Equal(t, int64(0), count)

	_, statErr := os.Stat(generatedDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateCertificateIsIdempotent(t *testing.T) {
	db := setupTest(t)
	app := newCertApp()

	course := seedCourseWithTemplate(t, db)
	user := seedUser(t, db)

	resp, err := app.Test(jsonRequest(t, "POST", "/generate", fiber.Map{
		"courseId": course.ID,
		"userId":   user.ID,
	}), 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	url, _ := body["certificateUrl"].(string)
	require.NotEmpty(t, url)

	// The rendered file exists and decodes as an image.
	rendered, err := imaging.Open(diskPath(url))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 200), rendered.Bounds())

	var cert courseModels.Certification
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&cert).Error)
	assert.Len(t, cert.VerificationCode, 32)
	assert.Equal(t, "active", cert.Status)

	// A second request returns the stored certificate, not a new one.
	resp, err = app.Test(jsonRequest(t, "POST", "/generate", fiber.Map{
		"courseId": course.ID,
		"userId":   user.ID,
	}), 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, url, decodeBody(t, resp)["certificateUrl"])

	var count int64
	db.Model(&courseModels.Certification{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestVerifyCertificate(t *testing.T) {
	db := setupTest(t)
	app := newCertApp()

	course := seedCourseWithTemplate(t, db)
	user := seedUser(t, db)

	cert := courseModels.Certification{
		UserID:           user.ID,
		CourseID:         course.ID,
		CertificateURL:   "/certificates/generated/x.png",
		Status:           "active",
		VerificationCode: "deadbeefdeadbeefdeadbeefdeadbeef",
		IssuedAt:         time.Now(),
	}
	require.NoError(t, db.Create(&cert).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/verify/"+cert.VerificationCode, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp)["valid"])

	resp, err = app.Test(httptest.NewRequest("GET", "/verify/unknowncode", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetCompletedUsers(t *testing.T) {
	db := setupTest(t)
	app := newCertApp()

	course := seedCourseWithTemplate(t, db)
	done := seedUser(t, db)
	pending := models.User{Email: "john@example.com", Password: "-", FirstName: "John"}
	require.NoError(t, db.Create(&pending).Error)

	require.NoError(t, db.Create(&courseModels.CourseProgress{
		UserID: done.ID, CourseID: course.ID, CompletedModules: 2, TotalModules: 2, IsCompleted: true, LastAccessed: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&courseModels.CourseProgress{
		UserID: pending.ID, CourseID: course.ID, CompletedModules: 1, TotalModules: 2, IsCompleted: false, LastAccessed: time.Now(),
	}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/%d/completed-users", course.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var rows []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "jane@example.com", rows[0]["email"])
}
