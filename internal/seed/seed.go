// Package seed fills an empty database with demo content for local
// development.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"chronicle/internal/config"
	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/repository"
	"chronicle/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

const (
	readerCount      = 5
	postCount        = 6
	commentsPerPost  = 3
	demoPassword     = "demo-password-123"
	fallbackAdmin    = "admin@example.com"
	paragraphsLength = 40
)

// Run seeds demo users, posts, and comments. It is a no-op when any user
// already exists, so it is safe to run repeatedly.
func Run(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to inspect users table: %w", err)
	}
	if count > 0 {
		middleware.Logger.Info("database already seeded, skipping")
		return nil
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	adminEmail := cfg.AdminEmail
	if adminEmail == "" {
		adminEmail = fallbackAdmin
	}

	accounts := service.NewAccountService(userRepo, adminEmail)
	posts := service.NewPostService(postRepo)
	comments := service.NewCommentService(commentRepo, postRepo)

	admin, err := accounts.Register(ctx, adminEmail, demoPassword, gofakeit.Name())
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	readers := make([]*models.User, 0, readerCount)
	for i := 0; i < readerCount; i++ {
		// Numbered addresses keep the uniqueness check from tripping on a
		// repeated fake email.
		email := fmt.Sprintf("reader%d@%s", i+1, gofakeit.DomainName())
		reader, err := accounts.Register(ctx, email, demoPassword, gofakeit.Name())
		if err != nil {
			return fmt.Errorf("failed to seed reader: %w", err)
		}
		readers = append(readers, reader)
	}

	for i := 0; i < postCount; i++ {
		post, err := posts.CreatePost(ctx, service.PostInput{
			Title:    fmt.Sprintf("%s, Part %d", gofakeit.BookTitle(), i+1),
			Subtitle: gofakeit.Sentence(6),
			Body:     fmt.Sprintf("<p>%s</p>", gofakeit.Paragraph(3, 4, paragraphsLength, "</p><p>")),
			ImageURL: gofakeit.ImageURL(640, 480),
		}, admin)
		if err != nil {
			return fmt.Errorf("failed to seed post: %w", err)
		}
		for j := 0; j < commentsPerPost; j++ {
			author := readers[gofakeit.Number(0, readerCount-1)]
			if _, err := comments.CreateComment(ctx, gofakeit.Sentence(10), author, post.ID); err != nil {
				return fmt.Errorf("failed to seed comment: %w", err)
			}
		}
	}

	middleware.Logger.Info("database seeded",
		slog.String("admin_email", adminEmail),
		slog.String("demo_password", demoPassword),
		slog.Int("posts", postCount),
	)
	return nil
}
