// Message HTTP handlers.
//
// This file exposes REST endpoints for message turns:
//   - POST /api/messages/                      (append a turn; "user" turns get an assistant reply)
//   - GET  /api/messages/                      (list the caller's messages, optionally one history)
//   - GET  /api/messages/{id}                  (fetch one owned message)
//   - GET  /api/messages/history/{history_id}  (list one owned history, ETag support)
//
// Handlers are transport-thin: they validate and normalize inputs, delegate to
// MessageService, and translate results into HTTP responses (including
// conditional responses).
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
	"github.com/kmoustakas/go-summarizer-backend/internal/repo"
	"github.com/kmoustakas/go-summarizer-backend/internal/services"
	"github.com/kmoustakas/go-summarizer-backend/internal/utils"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for appending a message turn.
//
// Role defaults to "user". A "user" turn triggers an assistant reply; any
// other valid role is stored verbatim. When HistoryID is empty a new history
// is created implicitly and returned in the response.
type PostMessageRequest struct {
	// Content is the message text. It must be non-empty after trimming.
	Content string `json:"content" binding:"required,min=1"`
	// Role tags the turn; "user" (default) or "assistant".
	Role string `json:"role"`
	// HistoryID targets an existing owned history; empty creates one.
	HistoryID string `json:"history_id"`
	// Timestamp optionally backdates the turn (RFC 3339); empty means now.
	Timestamp *time.Time `json:"timestamp"`
}

// ExchangeResponse is returned for "user" turns: both persisted turns plus
// the history they belong to.
type ExchangeResponse struct {
	UserMessage      MessageDTO `json:"user_message"`
	AssistantMessage MessageDTO `json:"assistant_message"`
	HistoryID        string     `json:"history_id"`
}

// AppendResponse is returned for non-"user" turns.
type AppendResponse struct {
	Message   MessageDTO `json:"message"`
	HistoryID string     `json:"history_id"`
}

// ListMessagesResponse wraps a list of message turns.
type ListMessagesResponse struct {
	Messages []MessageDTO `json:"messages"`
}

//
// Helpers
//

// clampLimit parses the "limit" query parameter, applying the default and a
// hard cap.
func clampLimit(c *gin.Context) int {
	const (
		defaultLimit = 50
		maxLimit     = 500
	)
	limit := utils.AtoiDefault(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// bodyTimestamp converts the optional request timestamp into the zero value
// the service layer treats as "now".
func bodyTimestamp(ts *time.Time) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.UTC()
}

//
// Handlers
//

// PostMessage appends a message turn.
//
// A "user" turn (the default) is durably saved, then an assistant reply is
// generated and saved; the response carries both. Other valid roles are
// stored as-is without a provider call.
//
// Responses:
//   - 200 with ExchangeResponse or AppendResponse
//   - 400 on malformed payloads, blank or over-long content, or an unknown role
//   - 404 when history_id does not resolve to an owned history
//   - 500 on storage errors
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	if req.HistoryID != "" {
		if _, err := uuid.Parse(req.HistoryID); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "history id must be a UUID")
			return
		}
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleUser
	}
	uid := userID(c)
	ts := bodyTimestamp(req.Timestamp)

	if role == domain.RoleUser {
		ex, err := h.msgSvc.Respond(ctx, uid, req.HistoryID, req.Content, ts)
		if err != nil {
			failMessageError(c, err)
			return
		}
		ok(c, http.StatusOK, ExchangeResponse{
			UserMessage:      toMessageDTO(ex.UserMessage),
			AssistantMessage: toMessageDTO(ex.AssistantMessage),
			HistoryID:        ex.HistoryID,
		})
		return
	}

	m, err := h.msgSvc.Append(ctx, uid, req.HistoryID, role, req.Content, ts)
	if err != nil {
		failMessageError(c, err)
		return
	}
	ok(c, http.StatusOK, AppendResponse{
		Message:   toMessageDTO(m),
		HistoryID: m.HistoryID,
	})
}

// ListMessages returns the caller's messages, oldest first. An optional
// history_id query parameter narrows the list to one owned history; without
// it the list spans every history the caller owns.
func (h *Handlers) ListMessages(c *gin.Context) {
	historyID := strings.TrimSpace(c.Query("history_id"))
	if historyID != "" {
		if _, err := uuid.Parse(historyID); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "history id must be a UUID")
			return
		}
	}

	items, err := h.msgSvc.ListForUser(c.Request.Context(), userID(c), historyID, clampLimit(c))
	if err != nil {
		failMessageError(c, err)
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{Messages: toMessageDTOs(items)})
}

// GetMessage fetches one message owned by the caller. Missing and not-owned
// are both 404.
func (h *Handlers) GetMessage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message id must be a UUID")
		return
	}

	m, err := h.msgSvc.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		failMessageError(c, err)
		return
	}
	ok(c, http.StatusOK, toMessageDTO(m))
}

// ListHistoryMessages returns the messages of one owned history, oldest
// first, as a bare JSON array. Supports weak ETag via If-None-Match and may
// return 304.
func (h *Handlers) ListHistoryMessages(c *gin.Context) {
	ctx := c.Request.Context()
	historyID := c.Param("history_id")
	if _, err := uuid.Parse(historyID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "history id must be a UUID")
		return
	}

	// Conditional handling needs direct store access. Ownership is verified
	// before any stats query so a non-owner never sees an ETag (existence,
	// message count, and last activity would all leak through it) and can
	// never turn a replayed ETag into a 304.
	var db *gorm.DB
	if svc, okSvc := h.msgSvc.(*services.MessageService); okSvc {
		db = svc.DB
	}
	if db != nil {
		if _, err := repo.GetHistory(ctx, db, historyID, userID(c)); err != nil {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "history not found")
			return
		}
		count, maxTS, err := repo.MessagesStats(ctx, db, historyID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"messages:%s:%d:%d"`, historyID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.msgSvc.ListByHistory(ctx, userID(c), historyID, clampLimit(c))
	if err != nil {
		failMessageError(c, err)
		return
	}
	ok(c, http.StatusOK, toMessageDTOs(items))
}

// failMessageError maps service-layer message errors to HTTP responses.
func failMessageError(c *gin.Context, err error) {
	switch err {
	case services.ErrEmptyContent:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
	case services.ErrContentTooLong:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content too long")
	case services.ErrInvalidRole:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "role must be \"user\" or \"assistant\"")
	case services.ErrHistoryNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "history not found")
	case services.ErrMessageNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "message not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeRespondFailed, err.Error())
	}
}
