package provider

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any network call when a provider has
// no key configured. Its text is what the client sees when this happens on
// the terminal provider.
var ErrMissingAPIKey = errors.New("Server configuration error")

// StatusError is a non-2xx vendor response. The message intentionally
// mirrors the client-facing wording for the two vendor rejections users
// actually hit.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	switch e.Code {
	case 401:
		return "Invalid API Key"
	case 402:
		return "Insufficient Balance"
	default:
		return fmt.Sprintf("API Error (%d)", e.Code)
	}
}

// ParseError is a 2xx response whose content could not be decoded as a
// JSON report.
type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON from provider: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
