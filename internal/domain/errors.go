package domain

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Only ValidationError ever reaches the caller;
// the other conditions are absorbed by the stage fallbacks and logged.

// ValidationError marks malformed inbound input, rejected at the boundary
// before the pipeline runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ClassificationError wraps a failed or unparseable first LLM call.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string { return "classification failed: " + e.Err.Error() }
func (e *ClassificationError) Unwrap() error { return e.Err }

// ProviderError wraps a failed external content source. Provider names the
// source ("spotify", "giphy", ...), so the orchestrator's fallback stays
// provider-agnostic.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}
func (e *ProviderError) Unwrap() error { return e.Err }

// PersonalizationError wraps a failed second LLM call.
type PersonalizationError struct {
	Err error
}

func (e *PersonalizationError) Error() string { return "personalization failed: " + e.Err.Error() }
func (e *PersonalizationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrProfileNotFound is returned by profile stores that do not create
// defaults on read (the manager creates one instead).
var ErrProfileNotFound = errors.New("profile not found")
