package authController

import (
	"log"
	"time"

	"bibleapp/cache"
	"bibleapp/config"
	"bibleapp/database"
	"bibleapp/middleware"
	"bibleapp/models"
	"bibleapp/utils"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Signup registers a regular member with the default client role
func Signup(c *fiber.Ctx) error {
	reqData := new(struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		MobileNumber string `json:"mobileNumber"`
		Language     string `json:"language"`
		Church       string `json:"church"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User already exists", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Email:     reqData.Email,
		Password:  string(hashedPassword),
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Contact:   reqData.MobileNumber,
		Role:      string(middleware.RoleClient),
		Region:    reqData.Language,
		Church:    reqData.Church,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error during sign-up process", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully", newUser)
}

// ElderSignup registers a church elder and their church in one transaction.
// The elder becomes the subAdmin owning the church.
func ElderSignup(c *fiber.Ctx) error {
	reqData := new(struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		FirstName     string `json:"firstName"`
		LastName      string `json:"lastName"`
		MobileNumber  string `json:"mobileNumber"`
		Language      string `json:"language"`
		ChurchName    string `json:"churchName"`
		ChurchAddress string `json:"churchAddress"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	var newUser models.User
	var newChurch models.Church

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
			return gorm.ErrDuplicatedKey
		}

		newUser = models.User{
			Email:     reqData.Email,
			Password:  string(hashedPassword),
			FirstName: reqData.FirstName,
			LastName:  reqData.LastName,
			Contact:   reqData.MobileNumber,
			Role:      string(middleware.RoleSubAdmin),
			Region:    reqData.Language,
			Church:    reqData.ChurchName,
		}
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}

		newChurch = models.Church{
			ChurchName: reqData.ChurchName,
			Address:    reqData.ChurchAddress,
			Contact:    reqData.MobileNumber,
			ElderID:    newUser.ID,
		}
		return tx.Create(&newChurch).Error
	})

	if err == gorm.ErrDuplicatedKey {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User already exists", nil)
	}
	if err != nil {
		log.Printf("Error during church elder sign-up: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error during sign-up process", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Church elder registered successfully", fiber.Map{
		"user":   newUser,
		"church": newChurch,
	})
}

// Login verifies credentials and issues a JWT. Credential mismatches answer
// 400, matching the historical API contract.
func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User does not exist", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Incorrect password", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Email, user.Role, user.Church)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error during sign-in process", nil)
	}

	now := time.Now()
	database.Database.Db.Model(&user).Update("last_login", &now)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sign in successful", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// GoogleLogin signs a Google user in, creating the account on first login.
// When an ID token is supplied it is checked against Google's tokeninfo
// endpoint and must carry the claimed email.
func GoogleLogin(c *fiber.Ctx) error {
	reqData := new(struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		IDToken     string `json:"idToken"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.IDToken != "" {
		tokenInfo := new(struct {
			Email string `json:"email"`
		})

		resp, err := resty.New().SetTimeout(10 * time.Second).R().
			SetQueryParam("id_token", reqData.IDToken).
			SetResult(tokenInfo).
			Get(googleTokenInfoURL)
		if err != nil || resp.IsError() || tokenInfo.Email != reqData.Email {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Google token verification failed", nil)
		}
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		user = models.User{
			Email:     reqData.Email,
			Password:  "-", // Google accounts have no local password
			FirstName: reqData.DisplayName,
			Role:      string(middleware.RoleClient),
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Error creating Google user: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error during Google sign-in process", nil)
		}
	}

	token, err := middleware.GenerateJWT(user.ID, user.Email, user.Role, user.Church)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error during Google sign-in process", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sign in successful", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// RequestPasswordReset issues a short-lived reset code, stores it in Redis
// under a 15 minute TTL and mails it to the user.
func RequestPasswordReset(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
	}

	if err := cache.StoreResetCode(c.Context(), reqData.Email, code); err != nil {
		log.Printf("Error storing reset code: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
	}

	go func(code, email string) {
		if err := utils.SendResetEmail(code, email); err != nil {
			log.Printf("Error sending reset email to %s: %v", email, err)
		}
	}(code, reqData.Email)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification code sent successfully", nil)
}

// VerifyResetCode checks a submitted code against the stored one
func VerifyResetCode(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	stored, err := cache.GetResetCode(c.Context(), reqData.Email)
	if err == redis.Nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No verification code found", nil)
	}
	if err != nil {
		log.Printf("Error reading reset code: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
	}

	if stored != reqData.Code {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid verification code", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Code verified successfully", nil)
}

// ResetPassword re-verifies the code, updates the password hash and consumes
// the code.
func ResetPassword(c *fiber.Ctx) error {
	reqData := new(struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	stored, err := cache.GetResetCode(c.Context(), reqData.Email)
	if err != nil || stored != reqData.Code {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired verification code", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
	}

	result := database.Database.Db.Model(&models.User{}).
		Where("email = ?", reqData.Email).
		Update("password", string(hashedPassword))
	if result.Error != nil {
		log.Printf("Error updating password: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
	}

	if err := cache.DeleteResetCode(c.Context(), reqData.Email); err != nil {
		log.Printf("Error clearing reset code: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully", nil)
}
