package models

import "gorm.io/gorm"

// Image holds an inline-stored image blob. Uploaded content lives on disk
// under public/uploads; this table only backs the legacy /api/images/:id read.
type Image struct {
	gorm.Model
	Data     []byte `gorm:"type:longblob" json:"-"`
	MimeType string `json:"mime_type"`
}
