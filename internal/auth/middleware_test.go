package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newGuardedRouter(t *testing.T, iss *TokenIssuer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", iss.Middleware(), func(c *gin.Context) {
		uid, _ := UserIDFromContext(c)
		email, _ := EmailFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "email": email})
	})
	return r
}

func TestMiddleware_MissingHeader(t *testing.T) {
	r := newGuardedRouter(t, NewTokenIssuer("s", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unauthorized") {
		t.Fatalf("missing error code in body: %s", w.Body.String())
	}
}

func TestMiddleware_MalformedScheme(t *testing.T) {
	iss := NewTokenIssuer("s", time.Hour)
	r := newGuardedRouter(t, iss)

	tok, err := iss.Issue("u1", "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestMiddleware_ValidToken_SetsContext(t *testing.T) {
	iss := NewTokenIssuer("s", time.Hour)
	r := newGuardedRouter(t, iss)

	tok, err := iss.Issue("u1", "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"user_id":"u1"`) || !strings.Contains(body, `"email":"a@example.com"`) {
		t.Fatalf("context not populated: %s", body)
	}
}

func TestExtractBearer(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":  "abc",
		"bearer abc":  "abc",
		"BEARER abc ": "abc",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
	}
	for in, want := range cases {
		if got := extractBearer(in); got != want {
			t.Errorf("extractBearer(%q) = %q; want %q", in, got, want)
		}
	}
}
