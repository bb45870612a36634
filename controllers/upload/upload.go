package uploadController

import (
	"io"
	"log"
	"path/filepath"
	"strconv"

	"bibleapp/database"
	"bibleapp/middleware"
	"bibleapp/models"
	"bibleapp/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	maxUploadFiles    = 10
	maxUploadFileSize = 5 * 1024 * 1024
)

var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

var imageUploadsDir = filepath.Join("public", "uploads")

// UploadImages stores up to 10 images under the public uploads dir. Files
// over 5MB or with non-image content types are rejected before anything is
// written.
func UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No files uploaded", nil)
	}

	files := form.File["images"]
	if len(files) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No files uploaded", nil)
	}
	if len(files) > maxUploadFiles {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Too many files, maximum is 10", nil)
	}

	for _, file := range files {
		if file.Size > maxUploadFileSize {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File "+file.Filename+" exceeds the 5MB limit", nil)
		}
		if !allowedImageTypes[file.Header.Get("Content-Type")] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File "+file.Filename+" is not a supported image type", nil)
		}
	}

	saved := make([]fiber.Map, 0, len(files))
	for _, file := range files {
		path, err := utils.SaveUploadedFile(file, imageUploadsDir, "image")
		if err != nil {
			log.Printf("Error saving uploaded image: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save uploaded files", nil)
		}
		saved = append(saved, fiber.Map{
			"path":         utils.GetFileURL(filepath.Base(path)),
			"originalname": file.Filename,
			"mimetype":     file.Header.Get("Content-Type"),
			"size":         file.Size,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"files":   saved,
	})
}

// UploadImageBlob stores a single image in the database and returns its id
func UploadImageBlob(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded", nil)
	}
	if file.Size > maxUploadFileSize {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File exceeds the 5MB limit", nil)
	}
	mimeType := file.Header.Get("Content-Type")
	if !allowedImageTypes[mimeType] {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unsupported image type", nil)
	}

	src, err := file.Open()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read uploaded file", nil)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read uploaded file", nil)
	}

	image := models.Image{
		Data:     data,
		MimeType: mimeType,
	}
	if err := database.Database.Db.Create(&image).Error; err != nil {
		log.Printf("Error storing image: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store image", nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"imageId": image.ID,
	})
}

// GetImage streams a stored image blob with its original content type
func GetImage(c *fiber.Ctx) error {
	imageID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid image id!", nil)
	}

	var image models.Image
	if err := database.Database.Db.First(&image, imageID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Image not found", nil)
	}

	c.Set(fiber.HeaderContentType, image.MimeType)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(image.Data)))
	return c.Send(image.Data)
}
