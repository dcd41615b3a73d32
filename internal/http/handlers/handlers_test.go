package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kmoustakas/go-summarizer-backend/internal/auth"
	"github.com/kmoustakas/go-summarizer-backend/internal/llm"
	"github.com/kmoustakas/go-summarizer-backend/internal/repo"
	"github.com/kmoustakas/go-summarizer-backend/internal/services"
)

// scriptedProvider returns a fixed completion for every call.
type scriptedProvider struct {
	res llm.Completion
}

func (s *scriptedProvider) Complete(context.Context, llm.Request) llm.Completion { return s.res }

// maxContentRunesForTest keeps the content cap small enough to exercise
// without building megabyte payloads.
const maxContentRunesForTest = 64

type testEnv struct {
	router *gin.Engine
	tokens *auth.TokenIssuer
}

// newTestEnv stands up the API over a temp database with a scripted provider,
// mirroring the production route layout without the outer middleware stack.
func newTestEnv(t *testing.T, provider llm.Client) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "handlers_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := New(
		&services.AccountService{DB: db},
		&services.HistoryService{DB: db},
		&services.MessageService{DB: db, Provider: provider, MaxContentRunes: maxContentRunesForTest},
		&services.SummarizeService{Provider: provider},
		tokens,
	)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	protected := api.Group("", tokens.Middleware())
	protected.GET("/user/profile", h.Profile)
	protected.POST("/messages/", h.PostMessage)
	protected.GET("/messages/", h.ListMessages)
	protected.GET("/messages/:id", h.GetMessage)
	protected.GET("/messages/history/:history_id", h.ListHistoryMessages)
	protected.POST("/history/", h.SaveHistory)
	protected.GET("/history/", h.ListHistories)
	protected.DELETE("/history/:id", h.DeleteHistory)
	protected.POST("/summarize/", h.Summarize)

	return &testEnv{router: r, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doWithHeaders is do() with extra request headers and no body.
func (e *testEnv) doWithHeaders(t *testing.T, method, path, token string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account and returns its bearer token.
func (e *testEnv) registerAndLogin(t *testing.T, username, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username, "email": email, "password": "pw123456",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d (%s)", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": "pw123456",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d (%s)", w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected login payload: %+v", resp)
	}
	return resp.AccessToken
}

func okProvider(text string) *scriptedProvider {
	return &scriptedProvider{res: llm.Completion{Outcome: llm.OutcomeOK, Text: text}}
}

func degradedProvider() *scriptedProvider {
	return &scriptedProvider{res: llm.Completion{Outcome: llm.OutcomeDegraded}}
}
