package certificateController

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bibleapp/database"
	"bibleapp/middleware"
	"bibleapp/models"
	courseModels "bibleapp/models/course"
	"bibleapp/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	templatesDir = filepath.Join("public", "certificates", "templates")
	generatedDir = filepath.Join("public", "certificates", "generated")
)

// publicURL maps a file under public/ to the path it is served at
func publicURL(diskPath string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(diskPath), "public")
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return rel
}

// diskPath maps a served certificate URL back to its file under public/
func diskPath(url string) string {
	return filepath.Join("public", filepath.FromSlash(strings.TrimPrefix(url, "/")))
}

// UpdateTemplate uploads a course's certificate template image and stores the
// layout metadata alongside it.
func UpdateTemplate(c *fiber.Ctx) error {
	courseID := c.FormValue("courseId")
	if courseID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId is required", nil)
	}

	file, err := c.FormFile("template")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Template file is required", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	savedPath, err := utils.SaveUploadedFile(file, templatesDir, "template")
	if err != nil {
		log.Printf("Error saving certificate template: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save template", nil)
	}

	updates := map[string]interface{}{
		"certificate_url": publicURL(savedPath),
	}
	if metadata := c.FormValue("metadata"); metadata != "" {
		updates["certificate_metadata"] = datatypes.JSON(metadata)
	}

	if err := database.Database.Db.Model(&course).Updates(updates).Error; err != nil {
		log.Printf("Error updating certificate template: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update template", nil)
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"certificateUrl": publicURL(savedPath),
	})
}

// ListTemplates lists the certificate templates of an admin's courses
func ListTemplates(c *fiber.Ctx) error {
	createdBy := c.Query("id")
	if createdBy == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "id is required", nil)
	}

	var rows []struct {
		CourseID       uint   `json:"course_id"`
		Title          string `json:"title"`
		CertificateURL string `json:"certificateUrl"`
	}

	err := database.Database.Db.Model(&courseModels.Course{}).
		Select("id AS course_id, title, certificate_url").
		Where("created_by = ? AND certificate_url <> ''", createdBy).
		Scan(&rows).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch templates", nil)
	}

	return c.JSON(rows)
}

// DeleteTemplate detaches the certificate template from a course
func DeleteTemplate(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	result := database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"certificate_url":      "",
			"certificate_metadata": nil,
		})
	if result.Error != nil {
		log.Printf("Error deleting certificate template: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete template", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template deleted successfully", nil)
}

// GenerateCertificate renders a named certificate for the user and records
// it. Generation is idempotent: a second request for the same user and course
// returns the stored certificate instead of minting another.
func GenerateCertificate(c *fiber.Ctx) error {
	reqData := new(struct {
		CourseID uint `json:"courseId"`
		UserID   uint `json:"userId"`
	})

	if err := c.BodyParser(reqData); err != nil || reqData.CourseID == 0 || reqData.UserID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId and userId are required", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.First(&course, reqData.CourseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}
	if course.CertificateURL == "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate template found for this course", nil)
	}

	var user models.User
	if err := db.First(&user, reqData.UserID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	var existing courseModels.Certification
	if err := db.Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).First(&existing).Error; err == nil {
		return c.JSON(fiber.Map{
			"success":        true,
			"certificateUrl": existing.CertificateURL,
		})
	}

	meta := utils.ParseCertificateMetadata(course.CertificateMetadata)
	outName := "certificate-" + uuid.NewString() + ".png"
	outPath := filepath.Join(generatedDir, outName)

	if err := utils.RenderCertificate(diskPath(course.CertificateURL), user.FullName(), meta, outPath); err != nil {
		log.Printf("Error rendering certificate: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate", nil)
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate", nil)
	}

	cert := courseModels.Certification{
		UserID:           reqData.UserID,
		CourseID:         reqData.CourseID,
		CertificateURL:   publicURL(outPath),
		Status:           "active",
		VerificationCode: code,
		IssuedAt:         time.Now(),
	}

	// Check-then-insert inside the transaction; a concurrent generation that
	// won the race leaves its row behind and we return that one instead.
	err = db.Transaction(func(tx *gorm.DB) error {
		var dup courseModels.Certification
		if err := tx.Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).First(&dup).Error; err == nil {
			cert = dup
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(&cert).Error
	})
	if err == gorm.ErrDuplicatedKey {
		if rmErr := os.Remove(outPath); rmErr != nil {
			log.Printf("Error removing orphan certificate file: %v", rmErr)
		}
		return c.JSON(fiber.Map{
			"success":        true,
			"certificateUrl": cert.CertificateURL,
		})
	}
	if err != nil {
		log.Printf("Error recording certificate: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate", nil)
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"certificateUrl": cert.CertificateURL,
	})
}

// GetUserCertificates lists a user's active certificates with course titles
func GetUserCertificates(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	var rows []struct {
		ID               uint      `json:"id"`
		CourseID         uint      `json:"course_id"`
		CourseTitle      string    `json:"course_title"`
		CertificateURL   string    `json:"certificateUrl"`
		VerificationCode string    `json:"verificationCode"`
		IssuedAt         time.Time `json:"issuedAt"`
	}

	err = database.Database.Db.Model(&courseModels.Certification{}).
		Select("certifications.id, certifications.course_id, courses.title AS course_title, certifications.certificate_url, certifications.verification_code, certifications.issued_at").
		Joins("JOIN courses ON courses.id = certifications.course_id").
		Where("certifications.user_id = ? AND certifications.status = ?", userID, "active").
		Order("certifications.issued_at DESC").
		Scan(&rows).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates", nil)
	}

	return c.JSON(rows)
}

// VerifyCertificate resolves a verification code to its holder and course.
// Unknown codes answer 404 so the endpoint doubles as an authenticity check.
func VerifyCertificate(c *fiber.Ctx) error {
	code := c.Params("code")

	var row struct {
		FirstName      string    `json:"first_name"`
		LastName       string    `json:"last_name"`
		CourseTitle    string    `json:"course_title"`
		CertificateURL string    `json:"certificateUrl"`
		Status         string    `json:"status"`
		IssuedAt       time.Time `json:"issuedAt"`
	}

	err := database.Database.Db.Model(&courseModels.Certification{}).
		Select("users.first_name, users.last_name, courses.title AS course_title, certifications.certificate_url, certifications.status, certifications.issued_at").
		Joins("JOIN users ON users.id = certifications.user_id").
		Joins("JOIN courses ON courses.id = certifications.course_id").
		Where("certifications.verification_code = ?", code).
		First(&row).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found", nil)
	}

	return c.JSON(fiber.Map{
		"valid":       true,
		"certificate": row,
	})
}

// GetUserCourseProgress lists the user's progress rows with course titles,
// the overview feeding the certificates page.
func GetUserCourseProgress(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	var rows []struct {
		CourseID         uint      `json:"course_id"`
		CourseTitle      string    `json:"course_title"`
		CompletedModules int       `json:"completedModules"`
		TotalModules     int       `json:"totalModules"`
		IsCompleted      bool      `json:"isCompleted"`
		LastAccessed     time.Time `json:"lastAccessed"`
	}

	err = database.Database.Db.Model(&courseModels.CourseProgress{}).
		Select("course_progresses.course_id, courses.title AS course_title, course_progresses.completed_modules, course_progresses.total_modules, course_progresses.is_completed, course_progresses.last_accessed").
		Joins("JOIN courses ON courses.id = course_progresses.course_id").
		Where("course_progresses.user_id = ?", userID).
		Order("course_progresses.last_accessed DESC").
		Scan(&rows).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course progress", nil)
	}

	return c.JSON(rows)
}

// GetCompletedUsers lists the users who finished a course, the candidate set
// for certificate issuance.
func GetCompletedUsers(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var rows []struct {
		UserID    uint   `json:"user_id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}

	err = database.Database.Db.Model(&courseModels.CourseProgress{}).
		Select("users.id AS user_id, users.first_name, users.last_name, users.email").
		Joins("JOIN users ON users.id = course_progresses.user_id").
		Where("course_progresses.course_id = ? AND course_progresses.is_completed = ?", courseID, true).
		Scan(&rows).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch completed users", nil)
	}

	return c.JSON(rows)
}
