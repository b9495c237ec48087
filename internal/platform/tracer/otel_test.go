package tracer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"

	dErrors "invitedesk/pkg/domain-errors"
)

func TestErrorAttributes(t *testing.T) {
	t.Run("api error carries code and status", func(t *testing.T) {
		err := fmt.Errorf("disable: %w", &dErrors.Error{Code: dErrors.CodeAPI, Status: 404})
		assert.Equal(t, []Attribute{
			String(AttrErrorCode, "api_error"),
			Int(AttrHTTPStatus, 404),
		}, errorAttributes(err))
	})

	t.Run("network error has no status", func(t *testing.T) {
		err := &dErrors.Error{Code: dErrors.CodeNetwork, Err: errors.New("refused")}
		assert.Equal(t, []Attribute{String(AttrErrorCode, "network_error")}, errorAttributes(err))
	})

	t.Run("plain error has none", func(t *testing.T) {
		assert.Empty(t, errorAttributes(errors.New("boom")))
	})
}

func TestKeyValues(t *testing.T) {
	kvs := keyValues([]Attribute{
		String(AttrMode, "live"),
		Bool("otp.enabled", true),
		Int(AttrCodeCount, 3),
		Duration(AttrSimulatedLatency, 250*time.Millisecond),
		{Key: "ignored", Value: 1.5},
	})
	assert.Equal(t, []attribute.KeyValue{
		attribute.String(AttrMode, "live"),
		attribute.Bool("otp.enabled", true),
		attribute.Int(AttrCodeCount, 3),
		attribute.Int64(AttrSimulatedLatency, 250),
	}, kvs)
}
