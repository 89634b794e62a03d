// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post. Date is the human-readable publication date
// ("September 01, 2026"), stored as text rather than a timestamp. Body holds
// editor-produced HTML authored by admins.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"unique;not null" json:"title"`
	Subtitle  string         `gorm:"not null" json:"subtitle"`
	Date      string         `gorm:"not null" json:"date"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	ImageURL  string         `json:"image_url"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
