// Package services – HistoryService
//
// This file implements the HistoryService, which manages the lifecycle of
// conversation threads. It coordinates repository operations for creating,
// bulk-saving, listing (most recent first), and deleting histories, always
// scoped to the owning user. Service-level errors (e.g., ErrHistoryNotFound)
// are returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
	"github.com/kmoustakas/go-summarizer-backend/internal/repo"
)

// SavedTurn is one role-tagged turn supplied to Save when a client persists a
// whole conversation in one call.
type SavedTurn struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// HistoryService provides history-level operations. It enforces ownership
// constraints; messages hang off histories and cascade-delete with them.
type HistoryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Create starts a new empty history owned by userID.
func (s *HistoryService) Create(ctx context.Context, userID string) (*domain.History, error) {
	return repo.CreateHistory(ctx, s.DB, userID)
}

// Save creates a history owned by userID and appends the supplied turns to it
// in one transaction. Turns with a blank role default to "user"; an invalid
// role rejects the whole call before anything is written.
func (s *HistoryService) Save(ctx context.Context, userID string, turns []SavedTurn) (*domain.History, error) {
	for _, t := range turns {
		if t.Role != "" && !domain.ValidRole(t.Role) {
			return nil, ErrInvalidRole
		}
	}

	var hist *domain.History
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		h, err := repo.CreateHistory(ctx, tx, userID)
		if err != nil {
			return err
		}
		for _, t := range turns {
			role := t.Role
			if role == "" {
				role = domain.RoleUser
			}
			if _, err := repo.CreateMessage(tx, h.ID, role, strings.TrimSpace(t.Content), t.Timestamp); err != nil {
				return err
			}
		}
		hist = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hist, nil
}

// List returns the user's histories, most recent first, capped at limit.
// A limit <= 0 falls back to 20, matching the HTTP default.
func (s *HistoryService) List(ctx context.Context, userID string, limit int) ([]domain.History, error) {
	if limit <= 0 {
		limit = 20
	}
	return repo.ListHistories(ctx, s.DB, userID, limit)
}

// Delete removes a history owned by userID; its messages go with it via the
// FK cascade. A history that does not exist and one owned by someone else
// both yield ErrHistoryNotFound.
func (s *HistoryService) Delete(ctx context.Context, userID, historyID string) error {
	if err := repo.DeleteHistory(ctx, s.DB, historyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryNotFound
		}
		return err
	}
	return nil
}
