package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultAPIHost is the invite manager the console talks to unless the
	// operator overrides it at login.
	DefaultAPIHost = "https://invites.northsky.social/"
	// DefaultDirectoryURL serves DID documents for handle resolution.
	DefaultDirectoryURL = "https://plc.directory"
)

// Console captures configuration for the terminal console.
type Console struct {
	APIHost            string        `env:"INVITEDESK_API_HOST"            envDefault:"https://invites.northsky.social/"`
	DirectoryURL       string        `env:"INVITEDESK_DIRECTORY_URL"       envDefault:"https://plc.directory"`
	DemoMode           bool          `env:"INVITEDESK_DEMO_MODE"           envDefault:"false"`
	DemoLatency        time.Duration `env:"INVITEDESK_DEMO_LATENCY"        envDefault:"500ms"`
	PrefsPath          string        `env:"INVITEDESK_PREFS_PATH"`
	HTTPTimeout        time.Duration `env:"INVITEDESK_HTTP_TIMEOUT"        envDefault:"15s"`
	LogLevel           string        `env:"INVITEDESK_LOG_LEVEL"           envDefault:"info"`
	LogFile            string        `env:"INVITEDESK_LOG_FILE"`
	ResolveConcurrency int           `env:"INVITEDESK_RESOLVE_CONCURRENCY" envDefault:"4"`
	TracingEnabled     bool          `env:"INVITEDESK_TRACING"             envDefault:"false"`
}

// DemoServer captures configuration for the HTTP demo backend.
type DemoServer struct {
	Addr          string        `env:"INVITEDESK_DEMO_ADDR"           envDefault:":9090"`
	SigningKey    string        `env:"INVITEDESK_DEMO_SIGNING_KEY"    envDefault:"dev-secret-key-change-in-production"`
	TokenTTL      time.Duration `env:"INVITEDESK_DEMO_TOKEN_TTL"      envDefault:"12h"`
	ChallengeTTL  time.Duration `env:"INVITEDESK_DEMO_CHALLENGE_TTL"  envDefault:"5m"`
	AdminUsername string        `env:"INVITEDESK_DEMO_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string        `env:"INVITEDESK_DEMO_ADMIN_PASSWORD" envDefault:"password"`
	Latency       time.Duration `env:"INVITEDESK_DEMO_SERVER_LATENCY" envDefault:"0s"`
	EnrollOTP     bool          `env:"INVITEDESK_DEMO_ENROLL_OTP"     envDefault:"false"`
	LogLevel      string        `env:"INVITEDESK_LOG_LEVEL"           envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ConsoleFromEnv builds a Console config from the environment so main stays lean.
func ConsoleFromEnv() (Console, error) {
	var cfg Console
	if err := ParseEnv(&cfg); err != nil {
		return Console{}, err
	}
	cfg.APIHost = NormalizeHost(cfg.APIHost)
	if cfg.ResolveConcurrency < 1 {
		cfg.ResolveConcurrency = 1
	}
	return cfg, nil
}

// DemoServerFromEnv builds a DemoServer config from the environment.
func DemoServerFromEnv() (DemoServer, error) {
	var cfg DemoServer
	if err := ParseEnv(&cfg); err != nil {
		return DemoServer{}, err
	}
	return cfg, nil
}

// NormalizeHost trims whitespace and guarantees a trailing slash so endpoint
// paths can be joined onto it. An empty host yields DefaultAPIHost.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return DefaultAPIHost
	}
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	return host
}
