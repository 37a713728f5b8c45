package services

import "errors"

// Business-rule errors. All of them are deterministic and non-retryable; the
// handlers map them onto HTTP statuses. Anything else bubbling out of a
// service is a storage failure and surfaces as an internal error after the
// enclosing transaction has rolled back.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSkillNotFound   = errors.New("skill not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrChatNotFound    = errors.New("chat not found")

	ErrForbidden          = errors.New("caller is not permitted to perform this action")
	ErrInvalidState       = errors.New("transition not permitted from current session status")
	ErrInsufficientTokens = errors.New("insufficient tokens")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)
