package requesttime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithClockPinsTruncatedTime(t *testing.T) {
	fixed := time.Date(2026, 1, 25, 8, 2, 5, 614_999_999, time.UTC)
	var first, second time.Time
	handler := WithClock(func() time.Time { return fixed })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = Now(r.Context())
		second = Now(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/invite-codes", nil))

	assert.Equal(t, time.Date(2026, 1, 25, 8, 2, 5, 614_000_000, time.UTC), first)
	assert.Equal(t, first, second)
}

func TestMiddlewareUsesWallClock(t *testing.T) {
	var got time.Time
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Now(r.Context())
	}))

	before := time.Now().Truncate(time.Millisecond)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.False(t, got.Before(before))
	assert.False(t, got.After(time.Now()))
}

func TestNowFallsBackOutsideRequests(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before))
}

func TestWithTimeOverrides(t *testing.T) {
	a := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(time.Hour)
	ctx := WithTime(WithTime(context.Background(), a), b)
	assert.Equal(t, b, Now(ctx))
}
