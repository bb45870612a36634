package uploadRoutes

import (
	uploadControllers "bibleapp/controllers/upload"
	"bibleapp/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(app *fiber.App) {
	uploadGroup := app.Group("/api")

	uploadGroup.Post("/upload-images", middleware.JWTMiddleware, uploadControllers.UploadImages)
	uploadGroup.Post("/images", middleware.JWTMiddleware, uploadControllers.UploadImageBlob)
	uploadGroup.Get("/images/:id", uploadControllers.GetImage)
}
