// Auth HTTP handlers.
//
// This file exposes the public account endpoints:
//   - POST /api/auth/register  (create an account)
//   - POST /api/auth/login     (exchange credentials for a bearer token)
//
// It also declares the service contracts consumed by every handler in this
// package and the Handlers wiring that binds them. Handlers are
// transport-thin: they validate input, call application services, and
// translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kmoustakas/go-summarizer-backend/internal/auth"
	"github.com/kmoustakas/go-summarizer-backend/internal/domain"
	"github.com/kmoustakas/go-summarizer-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// AccountService defines the account use-cases consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AccountService interface {
	// Register creates a new user from the given credentials.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// Authenticate verifies an email/password pair and returns the user.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	// Profile returns the user record for the authenticated id.
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// HistoryService defines history-thread operations consumed by HTTP handlers.
type HistoryService interface {
	// Create starts a new empty history owned by userID.
	Create(ctx context.Context, userID string) (*domain.History, error)
	// Save creates a history and appends the supplied turns atomically.
	Save(ctx context.Context, userID string, turns []services.SavedTurn) (*domain.History, error)
	// List returns the user's histories, most recent first.
	List(ctx context.Context, userID string, limit int) ([]domain.History, error)
	// Delete removes one owned history and its messages.
	Delete(ctx context.Context, userID, historyID string) error
}

// MessageService defines message persistence and reply generation.
type MessageService interface {
	// Respond appends a user turn and an assistant reply to a history.
	Respond(ctx context.Context, userID, historyID, content string, ts time.Time) (*services.Exchange, error)
	// Append persists a single role-tagged turn without a provider call.
	Append(ctx context.Context, userID, historyID, role, content string, ts time.Time) (*domain.Message, error)
	// ListForUser returns messages scoped to the user, optionally to one history.
	ListForUser(ctx context.Context, userID, historyID string, limit int) ([]domain.Message, error)
	// ListByHistory returns the messages of one owned history, oldest first.
	ListByHistory(ctx context.Context, userID, historyID string, limit int) ([]domain.Message, error)
	// Get fetches a single owned message by id.
	Get(ctx context.Context, userID, messageID string) (*domain.Message, error)
}

// SummarizeService defines the one-shot summarization use-case.
type SummarizeService interface {
	// Summarize produces a summary of the given text.
	Summarize(ctx context.Context, text string) (*services.Summary, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for accounts, histories, messages, and
// summarization. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	accountSvc AccountService
	histSvc    HistoryService
	msgSvc     MessageService
	sumSvc     SummarizeService
	tokens     *auth.TokenIssuer
}

// New constructs a Handlers instance bound to the given services and token
// issuer.
func New(accountSvc AccountService, histSvc HistoryService, msgSvc MessageService, sumSvc SummarizeService, tokens *auth.TokenIssuer) *Handlers {
	return &Handlers{
		accountSvc: accountSvc,
		histSvc:    histSvc,
		msgSvc:     msgSvc,
		sumSvc:     sumSvc,
		tokens:     tokens,
	}
}

// userID extracts the authenticated user id stashed by the auth middleware.
func userID(c *gin.Context) string {
	id, _ := auth.UserIDFromContext(c)
	return id
}

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	// Username is the public handle (3–50 chars).
	Username string `json:"username" binding:"required,min=3,max=50"`
	// Email is the login identifier; matched case-insensitively.
	Email string `json:"email" binding:"required,email"`
	// Password is the plaintext secret (min 6 chars); only its hash is stored.
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// LoginRequest is the JSON payload for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token and the user it belongs to.
type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserDTO `json:"user"`
}

//
// Handlers
//

// Register creates a new account and returns the created user.
//
// Responses:
//   - 201 with RegisterResponse on success
//   - 400 on malformed payloads or duplicate email/username
//   - 500 on storage errors
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username, email and password are required")
		return
	}

	u, err := h.accountSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch err {
		case services.ErrEmailTaken:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email already registered")
		case services.ErrUsernameTaken:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username already taken")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRegisterFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, RegisterResponse{
		Message: "User created successfully",
		User:    toUserDTO(u),
	})
}

// Login verifies credentials and issues a signed bearer token.
//
// Unknown email and wrong password produce the same 401 so account existence
// never leaks.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	u, err := h.accountSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "incorrect email or password")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	token, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not issue token")
		return
	}

	ok(c, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserDTO(u),
	})
}

// Profile returns the authenticated user's record.
func (h *Handlers) Profile(c *gin.Context) {
	u, err := h.accountSvc.Profile(c.Request.Context(), userID(c))
	if err != nil {
		if err == services.ErrUserNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, toUserDTO(u))
}
