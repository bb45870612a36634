package controllers

import (
	"fmt"
	"testing"

	courseModels "bibleapp/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProgressApp() *fiber.App {
	app := fiber.New()
	app.Post("/update-progress", UpdateProgress)
	app.Get("/course-progress", GetCourseProgress)
	app.Get("/user-progress", GetUserProgress)
	app.Get("/chapter-status", GetChapterStatus)
	return app
}

func seedCourseWithPosts(t *testing.T, db *gorm.DB, postCount int) (courseModels.Course, []courseModels.Post) {
	t.Helper()

	course := courseModels.Course{Title: "Gospel of John", Church: "Grace Chapel", CreatedBy: 1}
	require.NoError(t, db.Create(&course).Error)

	posts := make([]courseModels.Post, postCount)
	for i := range posts {
		posts[i] = courseModels.Post{
			CourseID:  course.ID,
			Title:     fmt.Sprintf("Chapter %d", i+1),
			Content:   "<p>text</p>",
			Church:    course.Church,
			CreatedBy: 1,
		}
		require.NoError(t, db.Create(&posts[i]).Error)
	}
	return course, posts
}

func completeChapter(t *testing.T, app *fiber.App, userID, courseID, postID uint) map[string]interface{} {
	t.Helper()

	resp, err := app.Test(jsonRequest("POST", "/update-progress", fiber.Map{
		"userId":    userID,
		"courseId":  courseID,
		"postId":    postID,
		"completed": true,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return decodeBody(t, resp)
}

func TestUpdateProgressRecomputesFromSource(t *testing.T) {
	db := setupTestDB(t)
	app := newProgressApp()

	course, posts := seedCourseWithPosts(t, db, 3)

	body := completeChapter(t, app, 1, course.ID, posts[0].ID)
	assert.Equal(t, float64(1), body["completedModules"])
	assert.Equal(t, float64(3), body["totalModules"])

	var progress courseModels.CourseProgress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&progress).Error)
	assert.Equal(t, 1, progress.CompletedModules)
	assert.Equal(t, 3, progress.TotalModules)
	assert.False(t, progress.IsCompleted)
}

func TestUpdateProgressIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	app := newProgressApp()

	course, posts := seedCourseWithPosts(t, db, 3)

	completeChapter(t, app, 1, course.ID, posts[0].ID)
	body := completeChapter(t, app, 1, course.ID, posts[0].ID)
	assert.Equal(t, float64(1), body["completedModules"])

	var completions int64
	db.Model(&courseModels.ChapterCompletion{}).Where("user_id = ? AND post_id = ?", 1, posts[0].ID).Count(&completions)
	assert.Equal(t, int64(1), completions)

	var progressRows int64
	db.Model(&courseModels.CourseProgress{}).Where("user_id = ? AND course_id = ?", 1, course.ID).Count(&progressRows)
	assert.Equal(t, int64(1), progressRows)
}

func TestUpdateProgressMarksCourseComplete(t *testing.T) {
	db := setupTestDB(t)
	app := newProgressApp()

	course, posts := seedCourseWithPosts(t, db, 2)

	completeChapter(t, app, 1, course.ID, posts[0].ID)
	completeChapter(t, app, 1, course.ID, posts[1].ID)

	var progress courseModels.CourseProgress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&progress).Error)
	assert.Equal(t, 2, progress.CompletedModules)
	assert.True(t, progress.IsCompleted)
}

func TestUpdateProgressNotCompletedIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	app := newProgressApp()

	course, posts := seedCourseWithPosts(t, db, 1)

	resp, err := app.Test(jsonRequest("POST", "/update-progress", fiber.Map{
		"userId":    1,
		"courseId":  course.ID,
		"postId":    posts[0].ID,
		"completed": false,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var completions int64
	db.Model(&courseModels.ChapterCompletion{}).Count(&completions)
	assert.Equal(t, int64(0), completions)
}

func TestGetCourseProgressAndChapterStatus(t *testing.T) {
	db := setupTestDB(t)
	app := newProgressApp()

	course, posts := seedCourseWithPosts(t, db, 2)
	completeChapter(t, app, 1, course.ID, posts[0].ID)

	resp, err := app.Test(httpGet(fmt.Sprintf("/course-progress?userId=1&courseId=%d", course.ID)))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["completedModules"])
	assert.Equal(t, float64(2), body["totalModules"])
	assert.Equal(t, false, body["allChaptersCompleted"])

	resp, err = app.Test(httpGet(fmt.Sprintf("/chapter-status?userId=1&postId=%d", posts[0].ID)))
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["completed"])

	resp, err = app.Test(httpGet(fmt.Sprintf("/chapter-status?userId=1&postId=%d", posts[1].ID)))
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["completed"])
}
