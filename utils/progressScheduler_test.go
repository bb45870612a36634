package utils

import (
	"testing"
	"time"

	"bibleapp/database"
	courseModels "bibleapp/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSchedulerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&courseModels.Course{},
		&courseModels.Post{},
		&courseModels.CourseProgress{},
		&courseModels.ChapterCompletion{},
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

func TestReconcileCourseProgressRepairsDrift(t *testing.T) {
	db := setupSchedulerDB(t)

	course := courseModels.Course{Title: "Psalms", Church: "Grace Chapel", CreatedBy: 1}
	require.NoError(t, db.Create(&course).Error)

	posts := make([]courseModels.Post, 3)
	for i := range posts {
		posts[i] = courseModels.Post{CourseID: course.ID, Title: "Chapter", Content: "x", CreatedBy: 1}
		require.NoError(t, db.Create(&posts[i]).Error)
	}
	for _, p := range posts {
		require.NoError(t, db.Create(&courseModels.ChapterCompletion{
			UserID: 1, CourseID: course.ID, PostID: p.ID, CompletedAt: time.Now(),
		}).Error)
	}
	require.NoError(t, db.Create(&courseModels.CourseProgress{
		UserID: 1, CourseID: course.ID, CompletedModules: 3, TotalModules: 3, IsCompleted: true, LastAccessed: time.Now(),
	}).Error)

	// Deleting a chapter takes its completion markers with it but leaves the
	// stored counters stale.
	require.NoError(t, db.Unscoped().Where("post_id = ?", posts[2].ID).Delete(&courseModels.ChapterCompletion{}).Error)
	require.NoError(t, db.Unscoped().Delete(&courseModels.Post{}, posts[2].ID).Error)

	ReconcileCourseProgress()

	var progress courseModels.CourseProgress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&progress).Error)
	assert.Equal(t, 2, progress.CompletedModules)
	assert.Equal(t, 2, progress.TotalModules)
	assert.True(t, progress.IsCompleted)
}

func TestReconcileCourseProgressLeavesConsistentRowsAlone(t *testing.T) {
	db := setupSchedulerDB(t)

	course := courseModels.Course{Title: "Acts", Church: "Grace Chapel", CreatedBy: 1}
	require.NoError(t, db.Create(&course).Error)

	post := courseModels.Post{CourseID: course.ID, Title: "Chapter", Content: "x", CreatedBy: 1}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&courseModels.ChapterCompletion{
		UserID: 1, CourseID: course.ID, PostID: post.ID, CompletedAt: time.Now(),
	}).Error)

	accessed := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Create(&courseModels.CourseProgress{
		UserID: 1, CourseID: course.ID, CompletedModules: 1, TotalModules: 1, IsCompleted: true, LastAccessed: accessed,
	}).Error)

	ReconcileCourseProgress()

	var progress courseModels.CourseProgress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&progress).Error)
	assert.Equal(t, 1, progress.CompletedModules)
	assert.WithinDuration(t, accessed, progress.LastAccessed, time.Minute, "untouched rows keep their last_accessed")
}
