package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a learning course owned by a church
type Course struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	Church      string `gorm:"index" json:"church"`
	Language    string `json:"language"`
	CreatedBy   uint   `json:"created_by"`
	ImageID     *uint  `json:"image_id"`

	// PassCriteria is the minimum score percentage (0-100) a quiz attempt
	// needs to pass. Nil until the admin configures it.
	PassCriteria       *float64   `json:"pass_criteria"`
	PassCriteriaUpdate *time.Time `json:"pass_criteria_update"`

	// CertificateURL is the template image path relative to the public dir.
	// CertificateMetadata carries the text color and anchor position, e.g.
	// {"color":"#1a1a1a","position":{"x":600,"y":420}}.
	CertificateURL      string         `json:"certificate_url"`
	CertificateMetadata datatypes.JSON `json:"certificate_metadata"`
}
