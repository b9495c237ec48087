// Package demo is an in-memory implementation of the invite manager API.
//
// The console's simulated client calls Backend directly, and cmd/demo-server
// exposes the same Backend over HTTP through the handler package so the live
// client can be exercised without a real deployment. Sessions and two-factor
// challenges are HS256 JWTs, admin passwords are bcrypt hashes and OTP secrets
// are standard TOTP.
package demo

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	contract "invitedesk/contracts/invites"
	dErrors "invitedesk/pkg/domain-errors"
	"invitedesk/pkg/platform/middleware/requesttime"
)

// Metrics receives backend events. *metrics.Metrics satisfies it.
type Metrics interface {
	ObserveLogin(outcome string)
	IncrementOTPFailures()
	AddInvitesCreated(n int)
	IncrementInvitesDisabled()
	IncrementAdminsAdded()
	IncrementAdminsRemoved()
	SetActiveSessions(n int)
}

// Login outcomes reported to Metrics.
const (
	OutcomeToken     = "token"
	OutcomeChallenge = "challenge"
	OutcomeSetup     = "setup"
	OutcomeRejected  = "rejected"
)

const (
	maxCodesPerRequest = 100
	otpIssuer          = "Invite Manager"
)

// Config configures a Backend.
type Config struct {
	SigningKey    string
	SessionTTL    time.Duration
	ChallengeTTL  time.Duration
	AdminUsername string
	AdminPassword string
	// RequireOTP makes every admin without a verified OTP secret enrol on login.
	RequireOTP bool
	// BcryptCost defaults to bcrypt.DefaultCost. Tests use bcrypt.MinCost.
	BcryptCost int
	// SkipSeed starts with only the configured admin and no invite codes.
	SkipSeed bool
	Logger   *slog.Logger
	Metrics  Metrics
}

type adminRecord struct {
	username      string
	passwordHash  []byte
	createdAt     time.Time
	otpSecret     string
	otpVerified   bool
	pendingSecret string
}

// Backend holds the demo service state. All methods are safe for concurrent use.
type Backend struct {
	cfg     Config
	tokens  *tokenIssuer
	logger  *slog.Logger
	metrics Metrics

	mu         sync.RWMutex
	invites    []contract.InviteCode
	admins     map[string]*adminRecord
	adminOrder []string
	handles    map[string]string
}

// New creates a Backend with the configured admin and, unless SkipSeed is
// set, a sample set of invite codes and directory entries.
func New(cfg Config) (*Backend, error) {
	if cfg.SigningKey == "" {
		cfg.SigningKey = "demo-signing-key"
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.ChallengeTTL == 0 {
		cfg.ChallengeTTL = 5 * time.Minute
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "password"
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}

	b := &Backend{
		cfg:     cfg,
		tokens:  newTokenIssuer(cfg.SigningKey, cfg.SessionTTL, cfg.ChallengeTTL),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		admins:  make(map[string]*adminRecord),
		handles: make(map[string]string),
	}
	now := time.Now().UTC()
	if _, err := b.addAdminLocked(cfg.AdminUsername, cfg.AdminPassword, now.Add(-90*24*time.Hour)); err != nil {
		return nil, err
	}
	if !cfg.SkipSeed {
		b.seed(now)
	}
	return b, nil
}

// Login checks credentials and answers with a session token, an OTP setup
// payload or a two-factor challenge.
func (b *Backend) Login(ctx context.Context, username, password string) (*contract.LoginResponse, error) {
	username = strings.TrimSpace(username)

	b.mu.Lock()
	defer b.mu.Unlock()

	admin, ok := b.admins[username]
	if !ok || bcrypt.CompareHashAndPassword(admin.passwordHash, []byte(password)) != nil {
		b.metrics.ObserveLogin(OutcomeRejected)
		b.logger.InfoContext(ctx, "login rejected", "username", username)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password")
	}

	if admin.otpVerified {
		challenge, err := b.tokens.issue(ctx, kindChallenge, username)
		if err != nil {
			return nil, err
		}
		b.metrics.ObserveLogin(OutcomeChallenge)
		return &contract.LoginResponse{
			OTPEnabled:     true,
			OTPVerified:    true,
			TwoFactorToken: challenge,
		}, nil
	}

	if b.cfg.RequireOTP {
		uri, err := b.enrolLocked(ctx, admin)
		if err != nil {
			return nil, err
		}
		challenge, err := b.tokens.issue(ctx, kindChallenge, username)
		if err != nil {
			return nil, err
		}
		b.metrics.ObserveLogin(OutcomeSetup)
		return &contract.LoginResponse{
			OTPEnabled:     true,
			OTPVerified:    false,
			OTPAuthURL:     uri,
			TwoFactorToken: challenge,
		}, nil
	}

	token, err := b.issueSessionLocked(ctx, username)
	if err != nil {
		return nil, err
	}
	b.metrics.ObserveLogin(OutcomeToken)
	b.logger.InfoContext(ctx, "login succeeded", "username", username)
	return &contract.LoginResponse{Token: token}, nil
}

// Authenticate resolves a bearer session token to the admin it was issued to.
func (b *Backend) Authenticate(ctx context.Context, bearer string) (string, error) {
	if bearer == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "Missing authorization token")
	}
	username, err := b.tokens.parse(ctx, bearer, kindSession)
	if err != nil {
		return "", err
	}
	b.mu.RLock()
	_, ok := b.admins[username]
	b.mu.RUnlock()
	if !ok {
		return "", dErrors.New(dErrors.CodeUnauthorized, "Admin no longer exists")
	}
	return username, nil
}

func (b *Backend) issueSessionLocked(ctx context.Context, username string) (string, error) {
	token, err := b.tokens.issue(ctx, kindSession, username)
	if err != nil {
		return "", err
	}
	b.metrics.SetActiveSessions(b.tokens.activeSessions(requesttime.Now(ctx)))
	return token, nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveLogin(string)       {}
func (noopMetrics) IncrementOTPFailures()     {}
func (noopMetrics) AddInvitesCreated(int)     {}
func (noopMetrics) IncrementInvitesDisabled() {}
func (noopMetrics) IncrementAdminsAdded()     {}
func (noopMetrics) IncrementAdminsRemoved()   {}
func (noopMetrics) SetActiveSessions(int)     {}
