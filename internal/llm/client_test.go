package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kmoustakas/go-summarizer-backend/internal/config"
)

func TestOutcome_String(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeOK:       "ok",
		OutcomeDegraded: "degraded",
		OutcomeFailed:   "failed",
	}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q; want %q", o, got, want)
		}
	}
}

func TestGroqClient_NoCredential_Degrades(t *testing.T) {
	g := NewGroqClient(config.ProviderConfig{Model: "m", Timeout: time.Second})
	if g.Configured() {
		t.Fatalf("client without key should not be configured")
	}

	res := g.Complete(context.Background(), Request{System: "s", Turns: []Turn{{Role: "user", Content: "x"}}})
	if res.Outcome != OutcomeDegraded {
		t.Fatalf("outcome = %v, want degraded", res.Outcome)
	}
	if res.Text != "" || res.Err != nil {
		t.Fatalf("degraded completion must carry no text or error: %+v", res)
	}
}

// fakeProviderServer speaks just enough of the OpenAI chat-completions
// protocol for the client under test.
func fakeProviderServer(t *testing.T, status int, content string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode request: %v", err)
			}
			*capture = body
		}
		if status != http.StatusOK {
			http.Error(w, "boom", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestGroqClient_Success_TrimsAndSendsPrompt(t *testing.T) {
	var captured map[string]any
	srv := fakeProviderServer(t, http.StatusOK, "  a summary  ", &captured)
	defer srv.Close()

	g := NewGroqClient(config.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
	if !g.Configured() {
		t.Fatalf("client with key should be configured")
	}

	res := g.Complete(context.Background(), Request{
		System:    "be brief",
		Turns:     []Turn{{Role: "user", Content: "hello"}},
		MaxTokens: 500,
	})
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome = %v (err=%v), want ok", res.Outcome, res.Err)
	}
	if res.Text != "a summary" {
		t.Fatalf("text = %q, want trimmed %q", res.Text, "a summary")
	}

	if captured["model"] != "test-model" {
		t.Fatalf("model = %v", captured["model"])
	}
	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + 1 turn, got %d messages", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "be brief" {
		t.Fatalf("system message not first: %v", first)
	}
}

func TestGroqClient_ProviderError_Fails(t *testing.T) {
	srv := fakeProviderServer(t, http.StatusInternalServerError, "", nil)
	defer srv.Close()

	g := NewGroqClient(config.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})

	res := g.Complete(context.Background(), Request{Turns: []Turn{{Role: "user", Content: "hello"}}})
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", res.Outcome)
	}
	if res.Err == nil {
		t.Fatalf("failed completion must carry the cause")
	}
}
