package main

import (
	"log"

	"bibleapp/cache"
	"bibleapp/config"
	"bibleapp/database"
	authRoutes "bibleapp/routers/authRoutes"
	certificateRoutes "bibleapp/routers/certificateRoutes"
	courseRoutes "bibleapp/routers/courseRoutes"
	uploadRoutes "bibleapp/routers/uploadRoutes"
	userRoutes "bibleapp/routers/userRoutes"
	"bibleapp/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	cache.ConnectRedis()
	utils.InitializeProgressScheduler()

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // chapter content can carry inline images
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded images and generated certificates
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	uploadRoutes.SetupUploadRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
