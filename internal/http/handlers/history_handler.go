// History HTTP handlers.
//
// This file exposes REST endpoints for conversation threads:
//   - POST   /api/history/       (save a conversation as a new history)
//   - GET    /api/history/       (list the caller's histories, ETag support)
//   - DELETE /api/history/{id}   (delete one owned history and its messages)
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmoustakas/go-summarizer-backend/internal/repo"
	"github.com/kmoustakas/go-summarizer-backend/internal/services"
)

//
// DTOs
//

// SavedTurnRequest is one turn inside a SaveHistoryRequest.
type SavedTurnRequest struct {
	// Role tags the turn; blank defaults to "user".
	Role string `json:"role"`
	// Content is the turn text.
	Content string `json:"content"`
	// Timestamp optionally backdates the turn; empty means now.
	Timestamp *time.Time `json:"timestamp"`
}

// SaveHistoryRequest is the JSON payload for persisting a conversation in one
// call. An empty Messages slice creates an empty history.
type SaveHistoryRequest struct {
	Messages []SavedTurnRequest `json:"messages"`
}

// SaveHistoryResponse confirms the save and returns the created thread.
type SaveHistoryResponse struct {
	Message string     `json:"message"`
	Data    HistoryDTO `json:"data"`
}

// ListHistoriesResponse wraps the caller's history threads.
type ListHistoriesResponse struct {
	History []HistoryDTO `json:"history"`
}

//
// Handlers
//

// SaveHistory creates a new history owned by the caller and appends the
// supplied turns to it atomically.
//
// Responses:
//   - 200 with SaveHistoryResponse
//   - 400 on malformed payloads or an unknown role
//   - 500 on storage errors
func (h *Handlers) SaveHistory(c *gin.Context) {
	var req SaveHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	turns := make([]services.SavedTurn, 0, len(req.Messages))
	for _, t := range req.Messages {
		turns = append(turns, services.SavedTurn{
			Role:      t.Role,
			Content:   t.Content,
			Timestamp: bodyTimestamp(t.Timestamp),
		})
	}

	hist, err := h.histSvc.Save(c.Request.Context(), userID(c), turns)
	if err != nil {
		if err == services.ErrInvalidRole {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "role must be \"user\" or \"assistant\"")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, SaveHistoryResponse{
		Message: "History saved",
		Data:    toHistoryDTO(hist),
	})
}

// ListHistories returns the caller's histories, most recent first. Supports
// weak ETag via If-None-Match and may return 304.
func (h *Handlers) ListHistories(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okSvc := h.histSvc.(*services.HistoryService); okSvc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.HistoriesStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"history:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.histSvc.List(ctx, uid, clampLimit(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListHistoriesResponse{History: toHistoryDTOs(items)})
}

// DeleteHistory removes one owned history; its messages cascade with it.
// Missing and not-owned are both 404.
func (h *Handlers) DeleteHistory(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "history id must be a UUID")
		return
	}

	if err := h.histSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		if err == services.ErrHistoryNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "history not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "History deleted successfully"})
}
