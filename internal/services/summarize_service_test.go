package services

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/kmoustakas/go-summarizer-backend/internal/llm"
)

func TestSummarize_BlankText_NoProviderCall(t *testing.T) {
	p := &stubProvider{}
	svc := &SummarizeService{Provider: p}

	if _, err := svc.Summarize(context.Background(), "   \n "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("blank input must be rejected before the provider is called")
	}
}

func TestSummarize_OK_RuneLengths(t *testing.T) {
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeOK, Text: "résumé"}}
	svc := &SummarizeService{Provider: p}

	text := "  héllo wörld  "
	sum, err := svc.Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Summary != "résumé" {
		t.Fatalf("summary = %q", sum.Summary)
	}
	// Lengths count runes of the trimmed input and of the summary.
	if sum.OriginalLength != utf8.RuneCountInString("héllo wörld") {
		t.Fatalf("original length = %d", sum.OriginalLength)
	}
	if sum.SummaryLength != 6 {
		t.Fatalf("summary length = %d, want 6 runes", sum.SummaryLength)
	}
	if p.lastReq.MaxTokens != 500 {
		t.Fatalf("summarize max tokens = %d, want 500", p.lastReq.MaxTokens)
	}
	if len(p.lastReq.Turns) != 1 || p.lastReq.Turns[0].Content != "héllo wörld" {
		t.Fatalf("prompt should carry exactly the trimmed text: %+v", p.lastReq.Turns)
	}
}

func TestSummarize_Degraded_ExactPlaceholder(t *testing.T) {
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeDegraded}}
	svc := &SummarizeService{Provider: p}

	sum, err := svc.Summarize(context.Background(), "héllo")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := "This is a placeholder summary of your text. Original text length: 5 characters."
	if sum.Summary != want {
		t.Fatalf("placeholder mismatch:\n got: %q\nwant: %q", sum.Summary, want)
	}
	if sum.OriginalLength != 5 {
		t.Fatalf("original length = %d, want 5 runes", sum.OriginalLength)
	}
}

func TestSummarize_ProviderFailure(t *testing.T) {
	p := &stubProvider{res: llm.Completion{Outcome: llm.OutcomeFailed, Err: errors.New("timeout")}}
	svc := &SummarizeService{Provider: p}

	_, err := svc.Summarize(context.Background(), "some text")
	if !errors.Is(err, ErrProviderFailed) {
		t.Fatalf("expected ErrProviderFailed, got %v", err)
	}
}
