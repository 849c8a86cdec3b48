package types

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidProviderID   = errors.New("invalid provider ID")
	ErrInvalidProviderName = errors.New("invalid provider name")
	ErrInvalidAPIHost      = errors.New("invalid API host")
	ErrInvalidRateLimit    = errors.New("invalid rate limit")
	ErrMissingAPIKey       = errors.New("missing API key")

	// Provider errors
	ErrProviderNotFound = errors.New("provider not found")
	ErrInvalidResponse  = errors.New("invalid response from provider")
)

// ProviderError wraps provider-specific errors.
// Fatal errors must not be degraded to an empty result by the caller.
type ProviderError struct {
	Provider ProviderID
	Code     string
	Message  string
	Fatal    bool
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Provider, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewMissingKeyError builds the fatal error raised when a keyed source has no key.
func NewMissingKeyError(id ProviderID) *ProviderError {
	return &ProviderError{
		Provider: id,
		Code:     "MISSING_API_KEY",
		Message:  fmt.Sprintf("%s API key is not configured", id),
		Fatal:    true,
		Err:      ErrMissingAPIKey,
	}
}

// IsFatal reports whether err must abort the aggregate search.
func IsFatal(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Fatal
	}
	return errors.Is(err, ErrMissingAPIKey)
}
