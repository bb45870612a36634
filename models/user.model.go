package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email     string     `gorm:"unique;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	FirstName string     `gorm:"default:''" json:"first_name"`
	LastName  string     `gorm:"default:''" json:"last_name"`
	Contact   string     `gorm:"default:''" json:"contact"`
	Role      string     `gorm:"default:'client'" json:"role"` // client, subAdmin, admin
	Region    string     `gorm:"default:''" json:"region"`     // preferred language/region
	Church    string     `gorm:"default:'';index" json:"church"`
	LastLogin *time.Time `json:"last_login"`
}

// FullName is the display name drawn onto certificates.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
