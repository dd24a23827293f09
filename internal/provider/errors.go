package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrAuthentication    = errors.New("authentication failed")
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed model response")
)

// Error carries the failure class together with the underlying cause.
// errors.Is matches both the class sentinel and the cause.
type Error struct {
	Provider string
	Kind     error
	Status   int
	Err      error
}

func newError(provider string, kind error, status int, err error) *Error {
	return &Error{Provider: provider, Kind: kind, Status: status, Err: err}
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %v (status %d): %v", e.Provider, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

// classify maps an SDK failure and its HTTP status (0 when none) to a class.
func classify(provider string, status int, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newError(provider, ErrAuthentication, status, err)
	default:
		return newError(provider, ErrTransport, status, err)
	}
}

func malformed(provider string, format string, args ...any) error {
	return newError(provider, ErrMalformedResponse, 0, errors.Errorf(format, args...))
}

// retryable reports whether a classified error is worth another attempt:
// network failures without a status, 429 and 5xx. Caller cancellation is final.
func retryable(err error) bool {
	var pe *Error
	if !errors.As(err, &pe) || !errors.Is(pe.Kind, ErrTransport) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return pe.Status == 0 || pe.Status == http.StatusTooManyRequests || pe.Status >= 500
}
