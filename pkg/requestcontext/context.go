// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Context keys and getter/setter functions live here for values that are set
// by middleware but consumed by services. By keeping this package free of
// net/http dependencies, services can import only what they need without
// pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	caller := requestcontext.CallerID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithCallerID(ctx, accountID)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	callerIDKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyCallerID    = callerIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// CallerID retrieves the authenticated caller account id from the context.
// Returns "" when the request carried no valid identity.
func CallerID(ctx context.Context) string {
	if caller, ok := ctx.Value(ContextKeyCallerID).(string); ok {
		return caller
	}
	return ""
}

// WithCallerID injects a caller account id into the context.
func WithCallerID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, ContextKeyCallerID, accountID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts such as workers and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
