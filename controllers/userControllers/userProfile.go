package userControllers

import (
	"log"
	"net/url"
	"time"

	"bibleapp/database"
	"bibleapp/middleware"
	"bibleapp/models"
	courseModels "bibleapp/models/course"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// verifyCredentials loads the user by email and checks the password.
// Both failure modes answer 400 per the historical API contract.
func verifyCredentials(db *gorm.DB, email, password string) (*models.User, string) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "User not found"
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "Incorrect password"
	}
	return &user, ""
}

// VerifyCredentials confirms an email/password pair before sensitive profile
// operations.
func VerifyCredentials(c *fiber.Ctx) error {
	reqData := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	user, errMsg := verifyCredentials(database.Database.Db, reqData.Email, reqData.Password)
	if errMsg != "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, errMsg, nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Credentials verified", user)
}

// UpdateProfile updates a user's name, contact and email
func UpdateProfile(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData := new(struct {
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		MobileNumber string `json:"mobileNumber"`
		Email        string `json:"email"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	result := database.Database.Db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"first_name": reqData.FirstName,
			"last_name":  reqData.LastName,
			"contact":    reqData.MobileNumber,
			"email":      reqData.Email,
		})
	if result.Error != nil {
		log.Printf("Error updating profile: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error updating profile", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	var user models.User
	database.Database.Db.First(&user, userID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully", user)
}

// DeleteAccount removes a user and every owned progress, attempt and
// certification row after re-verifying credentials. The delete order follows
// the dependency chain, leaves first, in one transaction.
func DeleteAccount(c *fiber.Ctx) error {
	reqData := new(struct {
		UserID   uint   `json:"userId"`
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	user, errMsg := verifyCredentials(db, reqData.Email, reqData.Password)
	if errMsg != "" || user.ID != reqData.UserID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User not found", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		ownedRows := []struct {
			model  interface{}
			column string
		}{
			{&courseModels.Certification{}, "user_id"},
			{&courseModels.QuizAttempt{}, "user_id"},
			{&courseModels.CourseProgress{}, "user_id"},
			{&courseModels.ChapterCompletion{}, "user_id"},
			{&models.UserLoginHistory{}, "user_id"},
		}
		for _, owned := range ownedRows {
			if err := tx.Unscoped().Where(owned.column+" = ?", user.ID).Delete(owned.model).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		log.Printf("Error deleting account: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error deleting account", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account deleted successfully", nil)
}

// DeleteChurch removes a church and the elder account owning it after
// re-verifying the elder's credentials.
func DeleteChurch(c *fiber.Ctx) error {
	reqData := new(struct {
		UserID   uint   `json:"userId"`
		Email    string `json:"email"`
		Church   string `json:"church"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	user, errMsg := verifyCredentials(db, reqData.Email, reqData.Password)
	if errMsg != "" || user.ID != reqData.UserID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User not found", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Unscoped().
			Where("church_name = ? AND elder_id = ?", reqData.Church, user.ID).
			Delete(&models.Church{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Unscoped().Delete(&models.User{}, user.ID).Error
	})
	if err == gorm.ErrRecordNotFound {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Failed to delete church", nil)
	}
	if err != nil {
		log.Printf("Error deleting church: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error deleting account", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Church deleted successfully", nil)
}

// GetUsers lists all users, newest first
func GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.Database.Db.Order("id DESC").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error", nil)
	}
	return c.JSON(users)
}

// GetUsersByChurch lists the members of one church
func GetUsersByChurch(c *fiber.Ctx) error {
	// Multi-word church names arrive percent-encoded in the path.
	churchName, err := url.PathUnescape(c.Params("churchName"))
	if err != nil {
		churchName = c.Params("churchName")
	}

	var users []models.User
	if err := database.Database.Db.Where("church = ?", churchName).Order("id DESC").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error", nil)
	}
	return c.JSON(users)
}

// GetUserByEmail fetches a single user by email
func GetUserByEmail(c *fiber.Ctx) error {
	var user models.User
	if err := database.Database.Db.Where("email = ?", c.Params("email")).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}
	return c.JSON(user)
}

// GetChurches lists all registered churches
func GetChurches(c *fiber.Ctx) error {
	var churches []models.Church
	if err := database.Database.Db.Select("id", "church_name").Find(&churches).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error fetching churches", nil)
	}
	return c.JSON(churches)
}

// GetChurchID resolves the church administered by an elder user
func GetChurchID(c *fiber.Ctx) error {
	elderID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	var church models.Church
	if err := database.Database.Db.Where("elder_id = ?", elderID).First(&church).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No church found for the given user ID", nil)
	}

	return c.JSON(fiber.Map{"church_id": church.ID})
}

// GetUserStats aggregates the dashboard numbers: best quiz score as a
// percentage of that quiz's question count, chapters completed overall and
// the current daily login streak.
func GetUserStats(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	highestQuizScore := 0
	var best courseModels.QuizAttempt
	if err := db.Where("user_id = ?", userID).Order("score DESC").First(&best).Error; err == nil {
		var totalQuestions int64
		db.Model(&courseModels.QuizQuestion{}).Where("quiz_id = ?", best.QuizID).Count(&totalQuestions)
		if totalQuestions > 0 {
			highestQuizScore = int(float64(best.Score)/float64(totalQuestions)*100 + 0.5)
		}
	}

	var chaptersCompleted int64
	db.Model(&courseModels.ChapterCompletion{}).Where("user_id = ?", userID).Count(&chaptersCompleted)

	loginStreak := 1
	var lastLogin models.UserLoginHistory
	if err := db.Where("user_id = ?", userID).Order("login_date DESC").First(&lastLogin).Error; err == nil {
		loginStreak = lastLogin.CurrentStreak
	}

	return c.JSON(fiber.Map{
		"highestQuizScore":       highestQuizScore,
		"totalChaptersCompleted": chaptersCompleted,
		"loginStreak":            loginStreak,
	})
}

// UpdateLoginStreak records today's login and extends or restarts the daily
// streak. A second call on the same day is a no-op.
func UpdateLoginStreak(c *fiber.Ctx) error {
	reqData := new(struct {
		UserID uint `json:"userId"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Bucket days at local midnight; Truncate would cut at UTC epoch
	// boundaries and mis-date logins near midnight in other timezones.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	var existing models.UserLoginHistory
	if err := db.Where("user_id = ? AND login_date = ?", reqData.UserID, today).First(&existing).Error; err == nil {
		return c.JSON(fiber.Map{
			"message":         "Already logged in today",
			"alreadyLoggedIn": true,
			"currentStreak":   existing.CurrentStreak,
		})
	}

	newStreak := 1
	var last models.UserLoginHistory
	if err := db.Where("user_id = ?", reqData.UserID).Order("login_date DESC").First(&last).Error; err == nil {
		if last.LoginDate.Equal(today.AddDate(0, 0, -1)) {
			newStreak = last.CurrentStreak + 1
		}
	}

	entry := models.UserLoginHistory{
		UserID:        reqData.UserID,
		LoginDate:     today,
		CurrentStreak: newStreak,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("Error updating login streak: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update login streak", nil)
	}

	return c.JSON(fiber.Map{
		"message":         "Login streak updated",
		"alreadyLoggedIn": false,
		"currentStreak":   newStreak,
	})
}
