package service

import (
	"context"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/repository"
)

// PostInput carries the mutable post fields submitted through the editor form.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImageURL string
}

// PostService handles creation, editing, and deletion of blog posts.
type PostService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo, now: time.Now}
}

// ListPosts returns all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// GetPost returns a single post by ID.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost publishes a new post authored by author. The title uniqueness
// check mirrors the email check on registration.
func (s *PostService) CreatePost(ctx context.Context, in PostInput, author *models.User) (*models.Post, error) {
	existing, err := s.postRepo.GetByTitle(ctx, in.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewTitleTakenError(in.Title)
	}

	post := &models.Post{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Body:     in.Body,
		ImageURL: in.ImageURL,
		AuthorID: author.ID,
		// Publication date is a display string, frozen at creation time.
		Date: s.now().Format("January 02, 2006"),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces all mutable fields of the post and reassigns authorship
// to the editor. The original publication date is kept.
func (s *PostService) UpdatePost(ctx context.Context, id uint, in PostInput, editor *models.User) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != post.Title {
		existing, err := s.postRepo.GetByTitle(ctx, in.Title)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewTitleTakenError(in.Title)
		}
	}

	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.Body = in.Body
	post.ImageURL = in.ImageURL
	post.AuthorID = editor.ID
	post.Author = models.User{}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post. Comments referencing it are left in place.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}
