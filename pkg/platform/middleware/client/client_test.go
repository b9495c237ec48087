package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Run("empty user agent", func(t *testing.T) {
		assert.Equal(t, "Unknown Client", Parse("").Display)
	})

	t.Run("desktop browser", func(t *testing.T) {
		info := Parse("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		assert.Contains(t, info.Display, "Chrome on ")
		assert.False(t, info.Bot)
	})

	t.Run("console client", func(t *testing.T) {
		info := Parse("invitedesk/1.0")
		assert.NotEmpty(t, info.Display)
		assert.Equal(t, "invitedesk/1.0", info.UserAgent)
	})
}

func TestMiddleware(t *testing.T) {
	var got Info
	handler := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	req.Header.Set("User-Agent", "invitedesk/1.0")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", got.IP)
	assert.Equal(t, "203.0.113.0/24", got.Network)
	assert.Equal(t, "invitedesk/1.0", got.UserAgent)
}

func TestFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Info{}, FromContext(req.Context()))
}

func TestNetwork(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		want string
	}{
		{"ipv4", "192.168.1.47", "192.168.1.0/24"},
		{"ipv4 mapped", "::ffff:10.1.2.3", "10.1.2.0/24"},
		{"ipv6", "2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::/48"},
		{"empty", "", "unknown"},
		{"garbage", "not-an-ip", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Network(tt.ip))
		})
	}
}
