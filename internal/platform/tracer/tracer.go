// Package tracer wraps the console's outbound API calls in spans. The API
// clients only see Tracer; cmd/console picks the OpenTelemetry adapter when
// tracing is on and Noop otherwise.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span is one API call in flight. End is called exactly once with the
// call's error, which for domain errors also records the error code and
// the HTTP status the client saw.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
}

// Tracer is safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a span attribute. Value is a string, bool, int or int64.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in whole milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashUsername returns a short SHA-256 prefix of an operator name so spans can
// be correlated without carrying credentials-adjacent data.
func HashUsername(username string) string {
	if username == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(username))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the API client.
const (
	SpanLogin             = "api.login"
	SpanListInvites       = "api.invites.list"
	SpanCreateInvites     = "api.invites.create"
	SpanDisableInvite     = "api.invites.disable"
	SpanListAdmins        = "api.admins.list"
	SpanAddAdmin          = "api.admins.add"
	SpanRemoveAdmin       = "api.admins.remove"
	SpanGenerateOTP       = "api.otp.generate"
	SpanVerifyOTP         = "api.otp.verify"
	SpanValidateOTP       = "api.otp.validate"
	SpanResolveIdentifier = "api.identifier.resolve"
)

// Attribute keys used by the API client.
const (
	AttrMode             = "client.mode"
	AttrHTTPStatus       = "http.status_code"
	AttrErrorCode        = "error.code"
	AttrUsername         = "username_hash"
	AttrCodeCount        = "invites.count"
	AttrSimulatedLatency = "simulated_latency_ms"
	AttrIdentifier       = "identifier"
)

// NoopTracer discards every span.
type NoopTracer struct{}

func NewNoop() *NoopTracer {
	return &NoopTracer{}
}

func (*NoopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error)                  {}
func (noopSpan) SetAttributes(...Attribute) {}
