package websearch

import "fmt"

// AuthError indicates a missing or rejected web-search API key.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("web search auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("web search auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// QuotaExceededError indicates the search provider's plan limits were hit.
type QuotaExceededError struct {
	Message string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("web search quota exceeded: %s", e.Message)
}

// APIError represents any other failure from the search provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("web search API error: status %d: %s", e.StatusCode, e.Message)
}
