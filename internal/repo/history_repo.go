// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the History model.
//
// Functions:
//
//   - CreateHistory(ctx, db, userID) -> *domain.History, error
//     Inserts a new History row with UUID primary key and UTC timestamp.
//
//   - ListHistories(ctx, db, userID, limit) -> []domain.History, error
//     Returns the user's histories ordered by creation time descending.
//
//   - GetHistory(ctx, db, id, userID) -> *domain.History, error
//     Fetches a single history by ID/userID, or ErrNotFound if missing.
//
//   - DeleteHistory(ctx, db, id, userID) -> error
//     Deletes a history owned by userID; messages cascade via the FK.
//     Returns ErrNotFound when no owned row matches, without revealing
//     whether the id exists under another owner.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
)

// CreateHistory inserts a new History row owned by userID.
func CreateHistory(ctx context.Context, db *gorm.DB, userID string) (*domain.History, error) {
	h := &domain.History{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

// ListHistories returns histories belonging to userID, most recent first.
// A limit <= 0 disables the cap. It returns an empty slice if the user has
// no histories.
func ListHistories(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.History, error) {
	var out []domain.History
	q := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// GetHistory fetches a single history by its ID and owner (userID). If the
// record does not exist, it returns ErrNotFound. On other DB errors, the raw
// error is returned.
func GetHistory(ctx context.Context, db *gorm.DB, id, userID string) (*domain.History, error) {
	var h domain.History
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteHistory removes a history identified by id and owned by userID.
// If no rows are affected (history missing or not owned by userID), it
// returns ErrNotFound. On DB error, the raw error is returned.
func DeleteHistory(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.History{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
