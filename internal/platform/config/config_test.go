package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleFromEnv_Defaults(t *testing.T) {
	cfg, err := ConsoleFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIHost, cfg.APIHost)
	assert.Equal(t, DefaultDirectoryURL, cfg.DirectoryURL)
	assert.Equal(t, 500*time.Millisecond, cfg.DemoLatency)
	assert.Equal(t, 4, cfg.ResolveConcurrency)
	assert.False(t, cfg.DemoMode)
}

func TestConsoleFromEnv_Overrides(t *testing.T) {
	t.Setenv("INVITEDESK_API_HOST", "  http://localhost:9090 ")
	t.Setenv("INVITEDESK_DEMO_MODE", "true")
	t.Setenv("INVITEDESK_RESOLVE_CONCURRENCY", "0")

	cfg, err := ConsoleFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9090/", cfg.APIHost)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, 1, cfg.ResolveConcurrency)
}

func TestConsoleFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("INVITEDESK_HTTP_TIMEOUT", "soon")

	_, err := ConsoleFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestDemoServerFromEnv_Defaults(t *testing.T) {
	cfg, err := DemoServerFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 5*time.Minute, cfg.ChallengeTTL)
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty falls back to default", "", DefaultAPIHost},
		{"whitespace only falls back to default", "   ", DefaultAPIHost},
		{"adds trailing slash", "https://example.com", "https://example.com/"},
		{"keeps existing slash", "https://example.com/", "https://example.com/"},
		{"keeps path", "https://example.com/invites", "https://example.com/invites/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHost(tt.in))
		})
	}
}
