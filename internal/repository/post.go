package repository

import (
	"context"
	"errors"

	"chronicle/internal/cache"
	"chronicle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByTitle(ctx context.Context, title string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post

	err := cache.Aside(ctx, cache.PostsListKey, &posts, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Author").
			Order("created_at DESC").
			Find(&posts).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Author").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByTitle returns (nil, nil) when no post has the given title.
func (r *postRepository) GetByTitle(ctx context.Context, title string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	// Omit associations so a preloaded Author is not upserted alongside the post.
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	cache.InvalidatePostsList(ctx)
	return nil
}

// Delete removes the post only. Its comments keep their post_id and become
// orphans; retrieval through ListByPost still returns them.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	cache.InvalidatePostsList(ctx)
	return nil
}
