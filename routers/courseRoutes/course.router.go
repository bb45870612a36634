package courseRoutes

import (
	courseControllers "bibleapp/controllers/course"
	"bibleapp/middleware"
	courseValidators "bibleapp/validators/course"
	progressValidators "bibleapp/validators/progress"
	quizValidators "bibleapp/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Courses
	api.Get("/courses", courseControllers.GetCourses)
	api.Post("/courses", middleware.JWTMiddleware, middleware.RequireAdmin, courseValidators.CreateCourse(), courseControllers.CreateCourse)
	api.Delete("/courses/church/:churchName", middleware.JWTMiddleware, middleware.RequireAdmin, courseControllers.DeleteChurchCourses)
	api.Delete("/courses/:id", middleware.JWTMiddleware, middleware.RequireAdmin, courseControllers.DeleteCourse)
	api.Put("/courses/:courseId/pass-criteria", middleware.JWTMiddleware, middleware.RequireAdmin, courseValidators.UpdatePassCriteria(), courseControllers.UpdatePassCriteria)
	api.Get("/pass_mark", courseControllers.GetPassMark)

	// Chapters
	api.Get("/posts", courseControllers.GetPosts)
	api.Get("/posts/:courseId", courseControllers.GetCoursePosts)
	api.Post("/posts", middleware.JWTMiddleware, middleware.RequireAdmin, courseValidators.CreatePost(), courseControllers.CreatePost)
	api.Put("/posts/:id", middleware.JWTMiddleware, middleware.RequireAdmin, courseControllers.UpdatePost)
	api.Delete("/posts/:id", middleware.JWTMiddleware, middleware.RequireAdmin, courseControllers.DeletePost)

	// Quizzes
	api.Post("/quizzes", middleware.JWTMiddleware, middleware.RequireAdmin, quizValidators.CreateQuiz(), courseControllers.CreateQuiz)
	api.Get("/quizzes", courseControllers.GetQuizzes)
	api.Delete("/quizzes/:id", middleware.JWTMiddleware, middleware.RequireAdmin, courseControllers.DeleteQuiz)
	api.Get("/allquizzes", courseControllers.GetChurchQuizzes)
	api.Get("/all-client-quizzes", courseControllers.GetClientQuizzes)
	api.Get("/quiz-questions", courseControllers.GetQuizQuestions)
	api.Get("/quiz-status", courseControllers.GetQuizStatus)
	api.Get("/quiz-results/:quizId/user/:userId", courseControllers.GetQuizResults)

	// Attempts
	api.Post("/quiz-attempts", quizValidators.SubmitQuizAttempt(), courseControllers.SubmitQuizAttempt)
	api.Get("/can-attempt-quiz/:quizId", courseControllers.CanAttemptQuiz)
	api.Post("/admin/reset-quiz-attempts", middleware.JWTMiddleware, middleware.RequireAdmin, quizValidators.ResetQuizAttempts(), courseControllers.ResetQuizAttempts)
	api.Get("/admin/quiz-attempts", middleware.JWTMiddleware, middleware.RequireAdmin, courseControllers.GetQuizAttempts)

	// Progress
	api.Post("/update-progress", progressValidators.UpdateProgress(), courseControllers.UpdateProgress)
	api.Get("/course-progress", progressValidators.CourseProgressQuery(), courseControllers.GetCourseProgress)
	api.Get("/user-progress", progressValidators.CourseProgressQuery(), courseControllers.GetUserProgress)
	api.Get("/chapter-status", courseControllers.GetChapterStatus)
}
