package userRoutes

import (
	"bibleapp/controllers/userControllers"
	"bibleapp/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api")

	userGroup.Post("/users/verify-credentials", userControllers.VerifyCredentials)
	userGroup.Put("/users/update-profile/:userId", middleware.JWTMiddleware, userControllers.UpdateProfile)
	userGroup.Delete("/users/delete-account", userControllers.DeleteAccount)
	userGroup.Delete("/users/delete-church", userControllers.DeleteChurch)

	userGroup.Get("/users", middleware.JWTMiddleware, middleware.RequireAdmin, userControllers.GetUsers)
	userGroup.Get("/users/by-email/:email", userControllers.GetUserByEmail)
	// Registered after the static paths so fiber matches those first.
	userGroup.Get("/users/:churchName", middleware.JWTMiddleware, middleware.RequireAdmin, userControllers.GetUsersByChurch)

	userGroup.Get("/churches", userControllers.GetChurches)
	userGroup.Get("/getChurchId/:id", userControllers.GetChurchID)

	userGroup.Get("/user-stats/:userId", userControllers.GetUserStats)
	userGroup.Post("/update-login-streak", userControllers.UpdateLoginStreak)
}
