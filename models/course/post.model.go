package course

import "gorm.io/gorm"

// Post is one chapter of course content. Creation order forms the linear
// chapter sequence of a course.
type Post struct {
	gorm.Model
	CourseID  uint   `gorm:"index;not null" json:"course_id"`
	Title     string `json:"title"`
	Content   string `gorm:"type:longtext" json:"content"` // HTML, may reference uploaded images
	Language  string `json:"language"`
	Church    string `json:"church"`
	CreatedBy uint   `json:"created_by"`
}
