// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a reader comment on a post. PostID is a plain foreign key;
// deleting a post does not cascade to its comments, so a comment may outlive
// the post it references.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
