// Package services defines the business logic for accounts, histories,
// messages, and summarization. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrEmailTaken indicates that the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken indicates that the registration username is already in use.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned for a login with an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable so the
	// endpoint cannot be used to probe which emails are registered.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUserNotFound indicates that the profile lookup found no user for the
	// authenticated id.
	ErrUserNotFound = errors.New("user not found")
)

// History/message-related errors.
var (
	// ErrHistoryNotFound indicates that the requested history does not exist
	// or is not owned by the current user. Not-owned and nonexistent are
	// intentionally the same error so existence never leaks to non-owners.
	ErrHistoryNotFound = errors.New("history not found")

	// ErrMessageNotFound indicates that the requested message does not exist
	// or belongs to a history the current user does not own.
	ErrMessageNotFound = errors.New("message not found")

	// ErrEmptyContent is returned when a message is submitted with no content
	// after trimming whitespace.
	ErrEmptyContent = errors.New("content is empty")

	// ErrContentTooLong is returned when a message exceeds the configured
	// content cap.
	ErrContentTooLong = errors.New("content too long")

	// ErrInvalidRole is returned when a message role is outside {user, assistant}.
	ErrInvalidRole = errors.New("role must be \"user\" or \"assistant\"")
)

// Summarization errors.
var (
	// ErrEmptyText is returned when the summarize input is blank after
	// trimming; the provider is never invoked in this case.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrProviderFailed wraps an external completion failure on the stateless
	// summarize path, the only place a provider error surfaces to the client.
	ErrProviderFailed = errors.New("summarization provider failed")
)
