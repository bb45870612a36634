package controllers

import (
	"fmt"
	"testing"
	"time"

	courseModels "bibleapp/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourseApp() *fiber.App {
	app := fiber.New()
	app.Post("/courses", CreateCourse)
	app.Delete("/courses/:id", DeleteCourse)
	app.Delete("/church-courses/:churchName", DeleteChurchCourses)
	app.Put("/courses/:courseId/pass-criteria", UpdatePassCriteria)
	app.Get("/get-passmark", GetPassMark)
	return app
}

func TestDeleteCourseCascadesAllOwnedData(t *testing.T) {
	db := setupTestDB(t)
	app := newCourseApp()

	course, quiz, _, _ := seedQuiz(t, db, floatPtr(50), 2)

	post := courseModels.Post{CourseID: course.ID, Title: "Chapter 1", Content: "x", Church: course.Church, CreatedBy: 1}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&courseModels.QuizAttempt{
		UserID: 1, QuizID: quiz.ID, Score: 1, AttemptedAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&courseModels.ChapterCompletion{
		UserID: 1, CourseID: course.ID, PostID: post.ID, CompletedAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&courseModels.CourseProgress{
		UserID: 1, CourseID: course.ID, CompletedModules: 1, TotalModules: 1, IsCompleted: true, LastAccessed: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&courseModels.Certification{
		UserID: 1, CourseID: course.ID, VerificationCode: "abc123", IssuedAt: time.Now(),
	}).Error)

	resp, err := app.Test(jsonRequest("DELETE", fmt.Sprintf("/courses/%d?church=Grace+Chapel", course.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	for name, model := range map[string]interface{}{
		"courses":             &courseModels.Course{},
		"posts":               &courseModels.Post{},
		"quizzes":             &courseModels.Quiz{},
		"quiz_questions":      &courseModels.QuizQuestion{},
		"quiz_options":        &courseModels.QuizOption{},
		"quiz_attempts":       &courseModels.QuizAttempt{},
		"chapter_completions": &courseModels.ChapterCompletion{},
		"course_progress":     &courseModels.CourseProgress{},
		"certifications":      &courseModels.Certification{},
	} {
		var count int64
		db.Model(model).Count(&count)
		assert.Equal(t, int64(0), count, "expected %s to be empty after cascade", name)
	}
}

func TestDeleteCourseRejectsForeignChurch(t *testing.T) {
	db := setupTestDB(t)
	app := newCourseApp()

	course, _, _, _ := seedQuiz(t, db, nil, 1)

	resp, err := app.Test(jsonRequest("DELETE", fmt.Sprintf("/courses/%d?church=Other+Church", course.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var count int64
	db.Model(&courseModels.Course{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteChurchCoursesRemovesAll(t *testing.T) {
	db := setupTestDB(t)
	app := newCourseApp()

	seedQuiz(t, db, nil, 1)
	seedQuiz(t, db, nil, 1)

	resp, err := app.Test(jsonRequest("DELETE", "/church-courses/Grace%20Chapel", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), decodeBody(t, resp)["deletedCoursesCount"])

	var count int64
	db.Model(&courseModels.Course{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdatePassCriteriaBoundsAndTimestamp(t *testing.T) {
	db := setupTestDB(t)
	app := newCourseApp()

	course, _, _, _ := seedQuiz(t, db, nil, 1)

	resp, err := app.Test(jsonRequest("PUT", fmt.Sprintf("/courses/%d/pass-criteria", course.ID), fiber.Map{
		"passCriteria": 150.0,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest("PUT", fmt.Sprintf("/courses/%d/pass-criteria", course.ID), fiber.Map{
		"passCriteria": 60.0,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated courseModels.Course
	require.NoError(t, db.First(&updated, course.ID).Error)
	require.NotNil(t, updated.PassCriteria)
	assert.Equal(t, 60.0, *updated.PassCriteria)
	assert.NotNil(t, updated.PassCriteriaUpdate)
}

func TestGetPassMark(t *testing.T) {
	db := setupTestDB(t)
	app := newCourseApp()

	unset, _, _, _ := seedQuiz(t, db, nil, 1)
	set, _, _, _ := seedQuiz(t, db, floatPtr(70), 1)

	resp, err := app.Test(httpGet(fmt.Sprintf("/get-passmark?course_id=%d", unset.ID)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httpGet(fmt.Sprintf("/get-passmark?course_id=%d", set.ID)))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(70), decodeBody(t, resp)["passmark"])
}
