package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kmoustakas/go-summarizer-backend/internal/llm"
)

func TestSummarize_OK(t *testing.T) {
	env := newTestEnv(t, okProvider("a short summary"))
	token := env.registerAndLogin(t, "alice", "a@example.com")

	w := env.do(t, http.MethodPost, "/api/summarize/", token, gin.H{"text": "a long article about things"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}

	var resp SummarizeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary != "a short summary" {
		t.Fatalf("summary = %q", resp.Summary)
	}
	if resp.OriginalLength != len("a long article about things") {
		t.Fatalf("original_length = %d", resp.OriginalLength)
	}
	if resp.SummaryLength != len("a short summary") {
		t.Fatalf("summary_length = %d", resp.SummaryLength)
	}
}

func TestSummarize_Degraded_Placeholder(t *testing.T) {
	env := newTestEnv(t, degradedProvider())
	token := env.registerAndLogin(t, "alice", "a@example.com")

	w := env.do(t, http.MethodPost, "/api/summarize/", token, gin.H{"text": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "This is a placeholder summary of your text. Original text length: 5 characters.") {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestSummarize_BlankText_BadRequest(t *testing.T) {
	env := newTestEnv(t, okProvider("x"))
	token := env.registerAndLogin(t, "alice", "a@example.com")

	for _, body := range []gin.H{{}, {"text": ""}, {"text": "   "}} {
		w := env.do(t, http.MethodPost, "/api/summarize/", token, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %v: status = %d, want 400", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), "text cannot be empty") {
			t.Fatalf("body: %s", w.Body.String())
		}
	}
}

func TestSummarize_ProviderFailure_InternalError(t *testing.T) {
	env := newTestEnv(t, &scriptedProvider{res: llm.Completion{
		Outcome: llm.OutcomeFailed,
		Err:     errors.New("upstream timeout"),
	}})
	token := env.registerAndLogin(t, "alice", "a@example.com")

	w := env.do(t, http.MethodPost, "/api/summarize/", token, gin.H{"text": "hello"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "summarize_failed") {
		t.Fatalf("body: %s", w.Body.String())
	}
}
