package authRoutes

import (
	authControllers "bibleapp/controllers/auth"
	authValidators "bibleapp/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/users")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/elder-signup", authValidators.ElderSignup(), authControllers.ElderSignup)
	authGroup.Post("/signin", authValidators.Login(), authControllers.Login)
	authGroup.Post("/google-signin", authValidators.GoogleLogin(), authControllers.GoogleLogin)
	authGroup.Post("/request-password-reset", authValidators.RequestPasswordReset(), authControllers.RequestPasswordReset)
	authGroup.Post("/verify-reset-code", authValidators.VerifyResetCode(), authControllers.VerifyResetCode)
	authGroup.Post("/reset-password", authValidators.ResetPassword(), authControllers.ResetPassword)
}
