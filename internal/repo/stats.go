// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
)

// HistoriesStats returns aggregate metadata for a user's histories: the total
// number of rows and the maximum CreatedAt timestamp among those rows.
//
// When the user has no histories, the returned count is 0 and maxCreatedAt
// is nil.
func HistoriesStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.History{}).Where("user_id = ?", userID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}

// MessagesStats returns aggregate metadata for messages within a given
// history: the total number of rows and the maximum Timestamp among those
// rows. When the history has no messages, the returned count is 0 and maxTS
// is nil.
func MessagesStats(ctx context.Context, db *gorm.DB, historyID string) (count int64, maxTS *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Message{}).Where("history_id = ?", historyID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		Timestamp time.Time
	}
	if err = q.Select("timestamp").Order("timestamp DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.Timestamp, nil
}
