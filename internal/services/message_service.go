// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns the lifecycle of chat messages and assistant replies. It validates
// inputs, checks history ownership, and drives the completion bridge: the
// user's turn is durably saved first, the prompt is assembled from the fixed
// system instruction plus a bounded window of prior turns, and the provider
// result (or a deterministic placeholder when the provider is absent or
// failing) is appended as the assistant turn. A provider problem never fails
// the outer request.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// history/user identifiers.

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
	"github.com/kmoustakas/go-summarizer-backend/internal/llm"
	"github.com/kmoustakas/go-summarizer-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// promptWindow bounds how many prior turns are replayed to the provider.
	promptWindow = 20

	// replyMaxTokens caps the provider response length for conversational calls.
	replyMaxTokens = 1000

	// chatSystemPrompt is the fixed system instruction for conversational calls.
	chatSystemPrompt = "You are a helpful assistant for a text summarization " +
		"application. Use the conversation so far to answer the user's latest message."
)

// MessageService coordinates message persistence and provider-backed replies.
type MessageService struct {
	DB       *gorm.DB
	Provider llm.Client

	// MaxContentRunes caps accepted message content; 0 disables the guard.
	MaxContentRunes int
}

// Exchange is the result of Respond: the persisted user turn, the persisted
// assistant turn, and the history both belong to.
type Exchange struct {
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
	HistoryID        string
}

// Respond appends the user's turn, obtains one assistant reply, and appends
// it. When historyID is empty a new history owned by userID is created
// implicitly. The user message is persisted before the provider is invoked,
// and a Degraded or Failed provider outcome is replaced with a placeholder
// that records the input length (and, on failure, the error description).
func (s *MessageService) Respond(ctx context.Context, userID, historyID, content string, ts time.Time) (*Exchange, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Respond",
		trace.WithAttributes(
			attribute.String("history.id", historyID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return nil, ErrContentTooLong
	}

	hist, err := s.resolveHistory(ctx, userID, historyID)
	if err != nil {
		return nil, err
	}

	// Prior turns, oldest first, loaded before the new turn is written so the
	// prompt window never double-counts it.
	prior, err := repo.ListMessages(s.DB.WithContext(ctx), hist.ID, 0)
	if err != nil {
		return nil, err
	}

	// Durably save the user's turn before the provider is involved.
	userMsg, err := repo.CreateMessage(s.DB.WithContext(ctx), hist.ID, domain.RoleUser, content, ts)
	if err != nil {
		return nil, err
	}

	reply := s.assistantReply(ctx, prior, content)

	assistantMsg, err := repo.CreateMessage(s.DB.WithContext(ctx), hist.ID, domain.RoleAssistant, reply, time.Time{})
	if err != nil {
		return nil, err
	}

	return &Exchange{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		HistoryID:        hist.ID,
	}, nil
}

// Append persists a single role-tagged turn without involving the provider.
// It backs the non-"user" branch of the message endpoint. When historyID is
// empty a new history owned by userID is created implicitly.
func (s *MessageService) Append(ctx context.Context, userID, historyID, role, content string, ts time.Time) (*domain.Message, error) {
	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	hist, err := s.resolveHistory(ctx, userID, historyID)
	if err != nil {
		return nil, err
	}
	return repo.CreateMessage(s.DB.WithContext(ctx), hist.ID, role, content, ts)
}

// ListByHistory returns the messages of one owned history in ascending
// timestamp order. A limit <= 0 disables the cap.
func (s *MessageService) ListByHistory(ctx context.Context, userID, historyID string, limit int) ([]domain.Message, error) {
	if _, err := repo.GetHistory(ctx, s.DB, historyID, userID); err != nil {
		return nil, ErrHistoryNotFound
	}
	return repo.ListMessages(s.DB.WithContext(ctx), historyID, limit)
}

// ListForUser returns messages scoped to the authenticated user. With a
// history id it behaves like ListByHistory; without one it spans every
// history the user owns via a store-side join, so no cap on the number of
// owned histories applies.
func (s *MessageService) ListForUser(ctx context.Context, userID, historyID string, limit int) ([]domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListForUser",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("history.id", historyID),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if historyID != "" {
		return s.ListByHistory(ctx, userID, historyID, limit)
	}
	return repo.ListUserMessages(ctx, s.DB, userID, limit)
}

// Get fetches a single message, verifying that its history belongs to
// userID. Missing and not-owned are both ErrMessageNotFound.
func (s *MessageService) Get(ctx context.Context, userID, messageID string) (*domain.Message, error) {
	m, err := repo.GetMessage(s.DB.WithContext(ctx), messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if _, err := repo.GetHistory(ctx, s.DB, m.HistoryID, userID); err != nil {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// resolveHistory loads an owned history, or creates one when no id is given.
func (s *MessageService) resolveHistory(ctx context.Context, userID, historyID string) (*domain.History, error) {
	if historyID == "" {
		return repo.CreateHistory(ctx, s.DB, userID)
	}
	h, err := repo.GetHistory(ctx, s.DB, historyID, userID)
	if err != nil {
		return nil, ErrHistoryNotFound
	}
	return h, nil
}

// assistantReply obtains the assistant content for the new user turn,
// degrading to a placeholder on an absent or failing provider.
func (s *MessageService) assistantReply(ctx context.Context, prior []domain.Message, content string) string {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "assistantReply")
	defer span.End()

	window := prior
	if len(window) > promptWindow {
		window = window[len(window)-promptWindow:]
	}

	turns := make([]llm.Turn, 0, len(window)+1)
	for _, m := range window {
		turns = append(turns, llm.Turn{Role: m.Role, Content: m.Content})
	}
	turns = append(turns, llm.Turn{Role: domain.RoleUser, Content: content})

	res := s.Provider.Complete(ctx, llm.Request{
		System:    chatSystemPrompt,
		Turns:     turns,
		MaxTokens: replyMaxTokens,
	})
	span.SetAttributes(attribute.String("provider.outcome", res.Outcome.String()))

	switch res.Outcome {
	case llm.OutcomeOK:
		return res.Text
	case llm.OutcomeDegraded:
		return fmt.Sprintf("This is a placeholder response. Original text length: %d characters. "+
			"Please configure GROQ_API_KEY in your .env file.", utf8.RuneCountInString(content))
	default:
		return fmt.Sprintf("This is a placeholder response. Original text length: %d characters. "+
			"Provider error: %s.", utf8.RuneCountInString(content), res.Err)
	}
}
