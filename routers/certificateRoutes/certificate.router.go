package certificateRoutes

import (
	certificateControllers "bibleapp/controllers/certificate"
	"bibleapp/middleware"
	certificateValidators "bibleapp/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/api/certificates")

	// Static paths are registered before the parameterized ones so fiber
	// does not swallow them as :courseId or :id values.
	certGroup.Post("/generate-certificate", certificateValidators.GenerateCertificate(), certificateControllers.GenerateCertificate)
	certGroup.Post("/update-certificate-template", middleware.JWTMiddleware, middleware.RequireAdmin, certificateValidators.UpdateTemplate(), certificateControllers.UpdateTemplate)
	certGroup.Get("/list", certificateControllers.ListTemplates)
	certGroup.Get("/user/:userId", certificateControllers.GetUserCertificates)
	certGroup.Get("/verify/:code", certificateControllers.VerifyCertificate)
	certGroup.Get("/course-progress/:userId", certificateControllers.GetUserCourseProgress)

	certGroup.Get("/:courseId/completed-users", middleware.JWTMiddleware, middleware.RequireAdmin, certificateControllers.GetCompletedUsers)
	certGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireAdmin, certificateControllers.DeleteTemplate)
}
