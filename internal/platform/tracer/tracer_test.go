package tracer_test

import (
	"context"
	"errors"
	"testing"

	"invitedesk/internal/platform/tracer"
	dErrors "invitedesk/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopTracer_Start(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, tracer.SpanListInvites,
		tracer.String(tracer.AttrMode, "live"),
		tracer.Bool("flag", true),
	)

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Int(tracer.AttrHTTPStatus, 200))
	span.End(errors.New("boom"))
}

func TestOTelTracer_WithProvider(t *testing.T) {
	tr := tracer.NewOTel(noop.NewTracerProvider())

	ctx, span := tr.Start(context.Background(), tracer.SpanLogin,
		tracer.String(tracer.AttrUsername, tracer.HashUsername("admin")),
		tracer.Int(tracer.AttrCodeCount, 3),
		tracer.Duration(tracer.AttrSimulatedLatency, 0),
	)
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	span.End(nil)

	_, failed := tr.Start(context.Background(), tracer.SpanDisableInvite)
	failed.End(&dErrors.Error{Code: dErrors.CodeAPI, Message: "Invite not found", Status: 404})
}

func TestHashUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
	}{
		{name: "empty string returns empty", input: "", wantLen: 0},
		{name: "short name produces 16 char hash", input: "a", wantLen: 16},
		{name: "long name produces 16 char hash", input: "operator-with-a-long-name", wantLen: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tracer.HashUsername(tt.input), tt.wantLen)
		})
	}
}

func TestHashUsername_Deterministic(t *testing.T) {
	assert.Equal(t, tracer.HashUsername("admin"), tracer.HashUsername("admin"))
	assert.NotEqual(t, tracer.HashUsername("admin"), tracer.HashUsername("root"))
}

func TestOTelTracer_GlobalProvider(t *testing.T) {
	tr := tracer.NewOTel(nil)
	_, span := tr.Start(context.Background(), tracer.SpanListAdmins)
	require.NotNil(t, span)
	span.End(nil)
}
