// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware and the sweep loops set values; services read them. Keeping this
// package free of net/http dependencies lets domain services import only what
// they need.
//
// Usage in services (read values):
//
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	sweepKey       struct{}
)

// WithRequestID stores a correlation id for the current request or per-ticket
// unit of work.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id, or "" when unset.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithSweep tags the context with the name of the sweep driving the work.
func WithSweep(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, sweepKey{}, name)
}

// Sweep returns the sweep name, or "" outside sweep-driven work.
func Sweep(ctx context.Context) string {
	v, _ := ctx.Value(sweepKey{}).(string)
	return v
}

// WithTime pins the observed wall clock. Tests use this to make timestamped
// output deterministic.
func WithTime(ctx context.Context, t time.Time) context.Context {
	if t.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the pinned time when present, time.Now otherwise.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
