package repository

import (
	"context"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByPost returns the comments referencing postID, oldest first. It does
// not check that the post still exists, so orphaned comments stay retrievable.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
