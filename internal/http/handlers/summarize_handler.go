// Summarize HTTP handler.
//
// This file exposes the stateless summarization endpoint:
//   - POST /api/summarize/
//
// Nothing is persisted; the endpoint validates the text, calls the
// summarization service, and reports rune counts for both the input and the
// produced summary.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kmoustakas/go-summarizer-backend/internal/services"
)

// SummarizeRequest is the JSON payload for a summarization call.
type SummarizeRequest struct {
	// Text is the content to summarize. It must be non-empty after trimming.
	Text string `json:"text" binding:"required"`
}

// SummarizeResponse carries the summary and rune-count lengths.
type SummarizeResponse struct {
	Summary        string `json:"summary"`
	OriginalLength int    `json:"original_length"`
	SummaryLength  int    `json:"summary_length"`
}

// Summarize produces a one-shot summary of the posted text.
//
// Responses:
//   - 200 with SummarizeResponse (placeholder text when no provider credential
//     is configured)
//   - 400 on a missing or blank text field
//   - 500 when the provider call itself fails
func (h *Handlers) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text cannot be empty")
		return
	}

	sum, err := h.sumSvc.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text cannot be empty")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSummarizeFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, SummarizeResponse{
		Summary:        sum.Summary,
		OriginalLength: sum.OriginalLength,
		SummaryLength:  sum.SummaryLength,
	})
}
