// Package llm wraps the external completion provider (Groq, speaking the
// OpenAI chat-completions protocol) behind a small client interface.
//
// Provider failures are modeled as values, not errors: every call returns a
// Completion whose Outcome is Ok, Degraded (no credential configured), or
// Failed (network/API error). Callers that must never surface a provider
// failure, like the conversational bridge that appends a placeholder instead,
// cannot accidentally let one propagate: there is no error return to forward.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	openai "github.com/sashabaranov/go-openai"

	"github.com/kmoustakas/go-summarizer-backend/internal/config"
)

// Outcome classifies the result of a completion call.
type Outcome int

const (
	// OutcomeOK means the provider returned text.
	OutcomeOK Outcome = iota
	// OutcomeDegraded means no provider credential is configured; the call
	// was never attempted.
	OutcomeDegraded
	// OutcomeFailed means the provider was called and the call failed.
	OutcomeFailed
)

// String returns the metric label for an outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "failed"
	}
}

// Turn is one role-tagged utterance in a prompt sequence.
type Turn struct {
	Role    string
	Content string
}

// Request describes a single completion call: one system instruction followed
// by ordered turns, with a response-length cap.
type Request struct {
	System    string
	Turns     []Turn
	MaxTokens int
}

// Completion is the result of a completion call. Text is set only when
// Outcome is OutcomeOK; Err only when OutcomeFailed.
type Completion struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Client obtains generated text from a completion provider.
type Client interface {
	Complete(ctx context.Context, req Request) Completion
}

// temperature is fixed for all completion calls.
const temperature = 0.7

// completionReqs counts provider calls by outcome.
var completionReqs = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "completion_requests_total",
		Help: "Total number of completion provider calls by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(completionReqs)
}

// GroqClient calls the Groq chat-completions endpoint with a fixed model and
// a per-call timeout. A client without a credential is valid: every call
// reports OutcomeDegraded without touching the network.
type GroqClient struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewGroqClient builds a client from provider configuration. The OpenAI SDK
// is pointed at the Groq base URL; when APIKey is empty no SDK client is
// constructed at all.
func NewGroqClient(cfg config.ProviderConfig) *GroqClient {
	g := &GroqClient{model: cfg.Model, timeout: cfg.Timeout}
	if cfg.APIKey != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		g.api = openai.NewClientWithConfig(oc)
	}
	return g
}

// Configured reports whether a provider credential is present.
func (g *GroqClient) Configured() bool { return g.api != nil }

// Complete performs one synchronous completion call. The returned text is
// trimmed of surrounding whitespace.
func (g *GroqClient) Complete(ctx context.Context, req Request) Completion {
	if g.api == nil {
		completionReqs.WithLabelValues(OutcomeDegraded.String()).Inc()
		return Completion{Outcome: OutcomeDegraded}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Turns)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, t := range req.Turns {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: t.Role, Content: t.Content})
	}

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		completionReqs.WithLabelValues(OutcomeFailed.String()).Inc()
		return Completion{Outcome: OutcomeFailed, Err: err}
	}
	if len(resp.Choices) == 0 {
		completionReqs.WithLabelValues(OutcomeFailed.String()).Inc()
		return Completion{Outcome: OutcomeFailed, Err: errors.New("provider returned no choices")}
	}

	completionReqs.WithLabelValues(OutcomeOK.String()).Inc()
	return Completion{
		Outcome: OutcomeOK,
		Text:    strings.TrimSpace(resp.Choices[0].Message.Content),
	}
}
