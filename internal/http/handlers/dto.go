// Response formatters.
//
// This file projects internal records into the external-facing shape the
// frontend expects: identifiers surfaced as strings under "_id" and the
// original field names preserved. Handlers never serialize domain models
// directly on API responses.
package handlers

import (
	"time"

	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
)

// UserDTO is the client-facing projection of a user record. The password
// hash never leaves the domain layer.
type UserDTO struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// MessageDTO is the client-facing projection of a message turn.
type MessageDTO struct {
	ID        string    `json:"_id"`
	HistoryID string    `json:"history_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryDTO is the client-facing projection of a history thread.
type HistoryDTO struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toMessageDTO(m *domain.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		HistoryID: m.HistoryID,
		Role:      m.Role,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}

func toMessageDTOs(ms []domain.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(ms))
	for i := range ms {
		out = append(out, toMessageDTO(&ms[i]))
	}
	return out
}

func toHistoryDTO(h *domain.History) HistoryDTO {
	return HistoryDTO{ID: h.ID, UserID: h.UserID, CreatedAt: h.CreatedAt}
}

func toHistoryDTOs(hs []domain.History) []HistoryDTO {
	out := make([]HistoryDTO, 0, len(hs))
	for i := range hs {
		out = append(out, toHistoryDTO(&hs[i]))
	}
	return out
}
