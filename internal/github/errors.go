package github

import "fmt"

// AuthError indicates a missing or rejected GitHub token. Fatal for the
// collector; the user must fix their configuration.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("github auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("github auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// RateLimitError indicates the GitHub API reported quota exhaustion.
// Remaining and Limit carry the quota headers so callers can report them.
type RateLimitError struct {
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github rate limit exceeded (%d/%d remaining)", e.Remaining, e.Limit)
}

// APIError represents a non-auth, non-quota failure from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github API error: status %d: %s", e.StatusCode, e.Message)
}
