package course

import (
	"time"

	"gorm.io/gorm"
)

// Certification records an issued certificate. The unique (user, course)
// index keeps issuance idempotent; the verification code is the only public
// lookup key for authenticity checks.
type Certification struct {
	gorm.Model
	UserID           uint      `gorm:"not null;uniqueIndex:idx_certification_user_course" json:"user_id"`
	CourseID         uint      `gorm:"not null;uniqueIndex:idx_certification_user_course" json:"course_id"`
	CertificateURL   string    `json:"certificate_url"`
	Status           string    `gorm:"default:'active'" json:"status"`
	VerificationCode string    `gorm:"unique;not null" json:"verification_code"`
	IssuedAt         time.Time `json:"issued_at"`
}
