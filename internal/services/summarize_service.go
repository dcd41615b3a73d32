// Package services – SummarizeService
//
// This file implements the stateless summarization path: one system+user
// prompt, no conversation history, nothing persisted. It is the only place a
// provider failure surfaces to the client; an absent credential still
// degrades to the placeholder summary.
package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
	"github.com/kmoustakas/go-summarizer-backend/internal/llm"
)

const (
	// summaryMaxTokens caps the provider response for pure summarization calls.
	summaryMaxTokens = 500

	// summarySystemPrompt is the fixed one-shot system instruction.
	summarySystemPrompt = "You are a text summarization assistant. Provide a " +
		"clear, concise summary of the text provided by the user."
)

// Summary is the result of a summarize call. Lengths are rune counts.
type Summary struct {
	Summary        string
	OriginalLength int
	SummaryLength  int
}

// SummarizeService produces one-shot summaries via the completion provider.
type SummarizeService struct {
	Provider llm.Client
}

// Summarize validates text and requests a summary. Blank input (after
// trimming) yields ErrEmptyText before any provider call. A degraded
// provider yields the deterministic placeholder; a failed call yields
// ErrProviderFailed wrapping the cause.
func (s *SummarizeService) Summarize(ctx context.Context, text string) (*Summary, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	origLen := utf8.RuneCountInString(text)

	res := s.Provider.Complete(ctx, llm.Request{
		System:    summarySystemPrompt,
		Turns:     []llm.Turn{{Role: domain.RoleUser, Content: text}},
		MaxTokens: summaryMaxTokens,
	})

	var summary string
	switch res.Outcome {
	case llm.OutcomeOK:
		summary = res.Text
	case llm.OutcomeDegraded:
		summary = fmt.Sprintf("This is a placeholder summary of your text. "+
			"Original text length: %d characters.", origLen)
	default:
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, res.Err)
	}

	return &Summary{
		Summary:        summary,
		OriginalLength: origLen,
		SummaryLength:  utf8.RuneCountInString(summary),
	}, nil
}
