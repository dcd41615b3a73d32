// Package services – AccountService
//
// This file implements AccountService, which owns registration, login, and
// profile lookup. It hashes passwords before persistence, maps store
// uniqueness violations to the duplicate errors, and keeps the login error
// identical for unknown-email and wrong-password so account existence never
// leaks.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kmoustakas/go-summarizer-backend/internal/auth"
	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
	"github.com/kmoustakas/go-summarizer-backend/internal/repo"
)

// AccountService implements the use-cases around user accounts.
type AccountService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Register creates a new user with a bcrypt-hashed password.
//
// The two pre-insert lookups produce the distinct ErrEmailTaken and
// ErrUsernameTaken responses; they are not a race guard. The unique indexes
// on email and username are, and a concurrent registration that slips past
// the lookups surfaces as a constraint violation which is mapped back to the
// matching duplicate error.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := repo.GetUserByUsername(ctx, s.DB, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, username, email, hash)
	if err != nil {
		return nil, classifyDuplicate(err)
	}
	return u, nil
}

// Authenticate verifies an email/password pair and returns the user.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(password, u.Password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Profile returns the user record for the authenticated id.
func (s *AccountService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// classifyDuplicate maps a unique-index violation from the store to the
// matching duplicate error; other errors pass through unchanged.
func classifyDuplicate(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") {
		return err
	}
	if strings.Contains(msg, "username") {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}
