package telemetry

import (
	"context"

	"github.com/google/uuid"
)

type sessionIDKey struct{}

// NewSessionID returns a fresh random session id.
func NewSessionID() string { return uuid.NewString() }

// WithSessionID returns a child context that carries id.
// If ctx is nil, context.Background() is used.
func WithSessionID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFromContext returns the session id from ctx, if present.
// Returns "", false if the value is missing or empty.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(sessionIDKey{}).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
