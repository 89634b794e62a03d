// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"
	"strings"

	"chronicle/internal/models"
	"chronicle/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration, authentication, and identity lookup.
type AccountService struct {
	userRepo   repository.UserRepository
	adminEmail string
}

// NewAccountService creates an AccountService. adminEmail, when non-empty,
// names the account that receives the admin capability at registration.
func NewAccountService(userRepo repository.UserRepository, adminEmail string) *AccountService {
	return &AccountService{userRepo: userRepo, adminEmail: adminEmail}
}

// Register creates a new account. The email uniqueness check runs before any
// write; a concurrent duplicate is still rejected by the unique index.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewEmailTakenError(email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     name,
		IsAdmin:  s.adminEmail != "" && strings.EqualFold(email, s.adminEmail),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the email/password pair and returns the matching user.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewWrongPasswordError()
	}
	return user, nil
}

// Lookup resolves a user by ID.
func (s *AccountService) Lookup(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
