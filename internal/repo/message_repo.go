// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
)

// CreateMessage inserts a new message row. A zero ts defaults to the current
// UTC time, preserving the write-time-default contract for appended turns.
func CreateMessage(db *gorm.DB, historyID, role, content string, ts time.Time) (*domain.Message, error) {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	m := &domain.Message{
		ID:        uuid.NewString(),
		HistoryID: historyID,
		Role:      role,
		Content:   content,
		Timestamp: ts,
	}
	return m, db.Create(m).Error
}

// ListMessages returns messages for a history ordered deterministically
// (Timestamp ASC, ID ASC). A limit <= 0 disables the cap.
func ListMessages(db *gorm.DB, historyID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.Where("history_id = ?", historyID).Order("timestamp ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListUserMessages returns messages across every history owned by userID,
// ordered (Timestamp ASC, ID ASC). Ownership is enforced store-side with a
// join against the history table, so no cap on the number of owned histories
// applies. A limit <= 0 disables the cap.
func ListUserMessages(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.WithContext(ctx).
		Joins("JOIN history ON history.id = messages.history_id").
		Where("history.user_id = ?", userID).
		Order("messages.timestamp ASC, messages.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error (as tests expect).
func CountMessages(db *gorm.DB, historyID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages WHERE history_id = ?", historyID).Scan(&total).Error
	return total, err
}

// GetMessage fetches a message by ID.
func GetMessage(db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
