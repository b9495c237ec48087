// Package requesttime pins one "now" per demo request so timestamps, token
// expiries and TOTP checks made while serving it agree with each other.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type ctxKey struct{}

// Clock returns the current time.
type Clock func() time.Time

// Middleware stamps each request with time.Now.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock stamps each request with clock's reading, truncated to the
// millisecond precision the invite manager's timestamps carry.
func WithClock(clock Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithTime(r.Context(), clock().Truncate(time.Millisecond))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Now returns the pinned time, or time.Now outside a stamped request (the
// in-process simulated client, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ctxKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins t on ctx.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}
