// Package client attaches a description of the calling client to the request
// context so handlers can log who is talking to them.
package client

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"
)

// Info describes the caller of one request.
type Info struct {
	IP string
	// Network is IP with the host part masked (/24 for IPv4, /48 for IPv6),
	// the form that goes into logs.
	Network   string
	UserAgent string
	// Display is "Browser on OS" for browsers, the product name otherwise.
	Display string
	Bot     bool
}

type contextKeyInfo struct{}

// Middleware parses the User-Agent and remote address once per request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := Parse(r.Header.Get("User-Agent"))
		info.IP = remoteIP(r.RemoteAddr)
		info.Network = Network(info.IP)
		next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
	})
}

func WithInfo(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, contextKeyInfo{}, info)
}

// FromContext returns the Info stored by Middleware, or a zero Info.
func FromContext(ctx context.Context) Info {
	info, _ := ctx.Value(contextKeyInfo{}).(Info)
	return info
}

// Parse describes a User-Agent string.
func Parse(userAgent string) Info {
	if strings.TrimSpace(userAgent) == "" {
		return Info{Display: "Unknown Client"}
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	info := Info{UserAgent: userAgent, Bot: ua.Bot()}

	os := ua.OS()
	switch {
	case ua.Mobile() && ua.Platform() != "":
		info.Display = strings.TrimSpace(browser + " on " + ua.Platform())
	case browser != "" && os != "":
		info.Display = browser + " on " + os
	case browser != "":
		info.Display = browser
	default:
		info.Display = userAgent
	}
	return info
}

func remoteIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// Network masks ip down to its network so a log line cannot single out one
// host. Unparseable input yields "unknown".
func Network(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "unknown"
	}
	addr = addr.Unmap()
	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "unknown"
	}
	return prefix.String()
}
