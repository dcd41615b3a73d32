package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
	"github.com/kmoustakas/go-summarizer-backend/internal/llm"
	"github.com/kmoustakas/go-summarizer-backend/internal/repo"
)

func TestRespond_OKProvider_PersistsBothTurns(t *testing.T) {
	db := newServiceDB(t)
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeOK, Text: "generated reply"}}
	svc := &MessageService{DB: db, Provider: p}
	ctx := context.Background()

	ex, err := svc.Respond(ctx, "u1", "", "  hello there  ", time.Time{})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if ex.HistoryID == "" {
		t.Fatalf("implicit history not created")
	}
	if ex.UserMessage.Role != domain.RoleUser || ex.UserMessage.Content != "hello there" {
		t.Fatalf("user turn mismatch: %+v", ex.UserMessage)
	}
	if ex.AssistantMessage.Role != domain.RoleAssistant || ex.AssistantMessage.Content != "generated reply" {
		t.Fatalf("assistant turn mismatch: %+v", ex.AssistantMessage)
	}

	msgs, err := repo.ListMessages(db, ex.HistoryID, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected both turns persisted, got %d", len(msgs))
	}
}

func TestRespond_DegradedProvider_ExactPlaceholder(t *testing.T) {
	db := newServiceDB(t)
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeDegraded}}
	svc := &MessageService{DB: db, Provider: p}

	// Multibyte content: the reported length is runes, not bytes.
	content := "héllo wörld"
	ex, err := svc.Respond(context.Background(), "u1", "", content, time.Time{})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	want := "This is a placeholder response. Original text length: 11 characters. " +
		"Please configure GROQ_API_KEY in your .env file."
	if ex.AssistantMessage.Content != want {
		t.Fatalf("placeholder mismatch:\n got: %q\nwant: %q", ex.AssistantMessage.Content, want)
	}
}

func TestRespond_FailedProvider_SavesUserTurnAndSucceeds(t *testing.T) {
	db := newServiceDB(t)
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeFailed, Err: errors.New("connection refused")}}
	svc := &MessageService{DB: db, Provider: p}

	ex, err := svc.Respond(context.Background(), "u1", "", "hello", time.Time{})
	if err != nil {
		t.Fatalf("a provider failure must not fail the exchange: %v", err)
	}

	want := "This is a placeholder response. Original text length: 5 characters. " +
		"Provider error: connection refused."
	if ex.AssistantMessage.Content != want {
		t.Fatalf("failure placeholder mismatch:\n got: %q\nwant: %q", ex.AssistantMessage.Content, want)
	}

	msgs, err := repo.ListMessages(db, ex.HistoryID, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "hello" {
		t.Fatalf("user turn must be durably saved before the provider call: %+v", msgs)
	}
}

func TestRespond_PromptWindow_TruncatesToMostRecentTwenty(t *testing.T) {
	db := newServiceDB(t)
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeOK, Text: "ok"}}
	svc := &MessageService{DB: db, Provider: p}
	ctx := context.Background()

	hist, err := repo.CreateHistory(ctx, db, "u1")
	if err != nil {
		t.Fatalf("CreateHistory: %v", err)
	}
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		role := domain.RoleUser
		if i%2 == 0 {
			role = domain.RoleAssistant
		}
		content := fmt.Sprintf("m%02d", i)
		if _, err := repo.CreateMessage(db, hist.ID, role, content, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("seed message %d: %v", i, err)
		}
	}

	if _, err := svc.Respond(ctx, "u1", hist.ID, "the new turn", time.Time{}); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	// 20 most recent prior turns plus the new one.
	if got := len(p.lastReq.Turns); got != 21 {
		t.Fatalf("prompt carried %d turns, want 21", got)
	}
	if p.lastReq.Turns[0].Content != "m06" {
		t.Fatalf("window should start at m06, got %q", p.lastReq.Turns[0].Content)
	}
	if last := p.lastReq.Turns[20]; last.Role != domain.RoleUser || last.Content != "the new turn" {
		t.Fatalf("new turn must be last: %+v", last)
	}
	if p.lastReq.System == "" {
		t.Fatalf("system instruction missing")
	}
	if p.lastReq.MaxTokens != 1000 {
		t.Fatalf("conversational max tokens = %d, want 1000", p.lastReq.MaxTokens)
	}
}

func TestRespond_BlankContent(t *testing.T) {
	db := newServiceDB(t)
	svc := &MessageService{DB: db, Provider: &stubProvider{}}

	if _, err := svc.Respond(context.Background(), "u1", "", "   \n\t ", time.Time{}); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestRespond_ContentOverCap(t *testing.T) {
	db := newServiceDB(t)
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeOK, Text: "ok"}}
	svc := &MessageService{DB: db, Provider: p, MaxContentRunes: 8}

	_, err := svc.Respond(context.Background(), "u1", "", "123456789", time.Time{})
	if !errors.Is(err, ErrContentTooLong) {
		t.Fatalf("expected ErrContentTooLong, got %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("provider must not be called for rejected content")
	}

	// The cap counts runes, not bytes.
	if _, err := svc.Respond(context.Background(), "u1", "", "héllo wö", time.Time{}); err != nil {
		t.Fatalf("8-rune content must pass an 8-rune cap: %v", err)
	}
}

func TestRespond_HistoryOwnership(t *testing.T) {
	db := newServiceDB(t)
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeOK, Text: "ok"}}
	svc := &MessageService{DB: db, Provider: p}
	ctx := context.Background()

	theirs, err := repo.CreateHistory(ctx, db, "u2")
	if err != nil {
		t.Fatalf("CreateHistory: %v", err)
	}
	if _, err := svc.Respond(ctx, "u1", theirs.ID, "hi", time.Time{}); !errors.Is(err, ErrHistoryNotFound) {
		t.Fatalf("expected ErrHistoryNotFound for foreign history, got %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("provider must not be called for a rejected exchange")
	}
}

func TestAppend_RoleValidationAndNoProviderCall(t *testing.T) {
	db := newServiceDB(t)
	p := &stubProvider{}
	svc := &MessageService{DB: db, Provider: p}
	ctx := context.Background()

	m, err := svc.Append(ctx, "u1", "", domain.RoleAssistant, "stored verbatim", time.Time{})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if m.Role != domain.RoleAssistant {
		t.Fatalf("role = %q", m.Role)
	}
	if p.calls != 0 {
		t.Fatalf("Append must never invoke the provider")
	}

	if _, err := svc.Append(ctx, "u1", "", "system", "x", time.Time{}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestListForUser_SpansHistoriesAndScopesOwnership(t *testing.T) {
	db := newServiceDB(t)
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeOK, Text: "ok"}}
	svc := &MessageService{DB: db, Provider: p}
	ctx := context.Background()

	ex1, err := svc.Respond(ctx, "u1", "", "first", time.Time{})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if _, err := svc.Respond(ctx, "u1", "", "second", time.Time{}); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if _, err := svc.Respond(ctx, "u2", "", "not yours", time.Time{}); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	all, err := svc.ListForUser(ctx, "u1", "", 0)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 messages across u1's histories, got %d", len(all))
	}

	one, err := svc.ListForUser(ctx, "u1", ex1.HistoryID, 0)
	if err != nil {
		t.Fatalf("ListForUser scoped: %v", err)
	}
	if len(one) != 2 {
		t.Fatalf("expected 2 messages in first history, got %d", len(one))
	}

	if _, err := svc.ListForUser(ctx, "u2", ex1.HistoryID, 0); !errors.Is(err, ErrHistoryNotFound) {
		t.Fatalf("expected ErrHistoryNotFound for foreign history, got %v", err)
	}
}

func TestGet_OwnershipHidesForeignMessages(t *testing.T) {
	db := newServiceDB(t)
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeOK, Text: "ok"}}
	svc := &MessageService{DB: db, Provider: p}
	ctx := context.Background()

	ex, err := svc.Respond(ctx, "u1", "", "mine", time.Time{})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	got, err := svc.Get(ctx, "u1", ex.UserMessage.ID)
	if err != nil {
		t.Fatalf("Get as owner: %v", err)
	}
	if got.Content != "mine" {
		t.Fatalf("unexpected message: %+v", got)
	}

	if _, err := svc.Get(ctx, "u2", ex.UserMessage.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound for non-owner, got %v", err)
	}
	if _, err := svc.Get(ctx, "u1", "missing"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound for missing id, got %v", err)
	}
}
