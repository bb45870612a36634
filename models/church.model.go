package models

import "gorm.io/gorm"

// Church is the tenant unit owning courses and users. The elder (subAdmin)
// who registered the church administers it.
type Church struct {
	gorm.Model
	ChurchName string `gorm:"unique;not null" json:"church_name"`
	Address    string `json:"address"`
	Contact    string `json:"contact"`
	ElderID    uint   `gorm:"index;not null" json:"elder_id"`
}
