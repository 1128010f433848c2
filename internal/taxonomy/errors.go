package taxonomy

import "fmt"

// APICallError represents a failure calling the analysis model.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("taxonomy analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("taxonomy analysis failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a model response that could not be parsed or did not
// match the expected structure.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse model response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to parse model response: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
