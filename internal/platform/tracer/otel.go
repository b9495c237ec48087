package tracer

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "invitedesk/pkg/domain-errors"
)

const instrumentationName = "invitedesk/api"

// OTelTracer records API calls through OpenTelemetry.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTel uses provider, or the global provider when provider is nil.
func NewOTel(provider trace.TracerProvider) *OTelTracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &OTelTracer{tracer: provider.Tracer(instrumentationName)}
}

func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(keyValues(attrs)...),
	)
	return ctx, otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		s.span.SetAttributes(keyValues(errorAttributes(err))...)
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(keyValues(attrs)...)
}

// errorAttributes describes a failed call by its domain error code and, when
// a response came back, its HTTP status.
func errorAttributes(err error) []Attribute {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		return nil
	}
	attrs := []Attribute{String(AttrErrorCode, string(de.Code))}
	if de.Status != 0 {
		attrs = append(attrs, Int(AttrHTTPStatus, de.Status))
	}
	return attrs
}

func keyValues(attrs []Attribute) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			kvs = append(kvs, attribute.String(a.Key, v))
		case bool:
			kvs = append(kvs, attribute.Bool(a.Key, v))
		case int:
			kvs = append(kvs, attribute.Int(a.Key, v))
		case int64:
			kvs = append(kvs, attribute.Int64(a.Key, v))
		}
	}
	return kvs
}
