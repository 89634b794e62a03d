package service

import (
	"context"

	"chronicle/internal/models"
	"chronicle/internal/repository"
)

const maxCommentLen = 10000

// CommentService handles comment creation and retrieval.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment records a comment by author on the given post. The post must
// still exist at creation time.
func (s *CommentService) CreateComment(ctx context.Context, text string, author *models.User, postID uint) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Text:   text,
		UserID: author.ID,
		PostID: postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the comments for a post, oldest first. It deliberately
// skips the post existence check: comments orphaned by a post deletion must
// remain retrievable.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}
