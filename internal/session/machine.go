// Package session owns the operator's screen and authentication state: which
// page is showing, the bearer token, any pending two-factor step, the loading
// flag and the one visible error message.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	contract "invitedesk/contracts/invites"
	"invitedesk/internal/prefs"
	dErrors "invitedesk/pkg/domain-errors"
)

// Operator-facing messages.
const (
	MsgUsernameRequired = "Please enter a valid username."
	MsgPasswordRequired = "Please enter a valid password."
	MsgCodeRequired     = "Please enter a 2FA code."

	FallbackLogin     = "Login failed"
	FallbackOTPSetup  = "Failed to start 2FA setup"
	FallbackOTPVerify = "OTP Verification failed"
	FallbackOTPCheck  = "OTP Validation failed"
)

const qrImageEndpoint = "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="

// Authenticator is the part of the API the machine drives itself.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*contract.LoginResponse, error)
	GenerateOTP(ctx context.Context) (*contract.GenerateOTPResponse, error)
	VerifyOTP(ctx context.Context, code, twoFactorToken string) (*contract.OTPResponse, error)
	ValidateOTP(ctx context.Context, code, twoFactorToken string) (*contract.OTPResponse, error)
}

// State is a point-in-time copy of the session.
type State struct {
	Screen                Screen
	Token                 string
	PendingTwoFactorToken string
	// ProvisioningURI is the otpauth URI to enrol; QRCodeURL renders it.
	ProvisioningURI string
	QRCodeURL       string
	Loading         bool
	Err             string
}

// Authenticated reports whether a session token is held.
func (s State) Authenticated() bool {
	return s.Token != ""
}

// Config configures a Machine.
type Config struct {
	Auth  Authenticator
	Store prefs.Store
	// Token is the persisted token at startup. A non-empty token starts the
	// machine on Home.
	Token  string
	Logger *slog.Logger
}

// Machine is the screen state machine. All methods are safe for concurrent
// use; state is read through Snapshot.
type Machine struct {
	auth   Authenticator
	store  prefs.Store
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	inflight int
}

func New(cfg Config) *Machine {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Store == nil {
		cfg.Store = prefs.NewMemoryStore()
	}
	m := &Machine{
		auth:   cfg.Auth,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
	m.state.Screen = ScreenLogin
	if cfg.Token != "" {
		m.state.Token = cfg.Token
		m.state.Screen = ScreenHome
	}
	return m
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	s.Loading = m.inflight > 0
	return s
}

// Token returns the in-memory bearer token. It satisfies api.TokenSource.
func (m *Machine) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token, nil
}

// Login runs the password step and routes to the OTP step the server asks
// for, or to Home with a persisted token.
func (m *Machine) Login(ctx context.Context, username, password string) error {
	m.mu.Lock()
	if m.state.Screen != ScreenLogin {
		screen := m.state.Screen
		m.mu.Unlock()
		return fmt.Errorf("%w: login from %s", ErrInvalidTransition, screen)
	}
	m.state.PendingTwoFactorToken = ""
	m.state.ProvisioningURI = ""
	m.state.QRCodeURL = ""
	m.mu.Unlock()

	if strings.TrimSpace(username) == "" {
		return m.reject(MsgUsernameRequired)
	}
	if password == "" {
		return m.reject(MsgPasswordRequired)
	}

	var resp *contract.LoginResponse
	err := m.run(ctx, FallbackLogin, func(ctx context.Context) error {
		var err error
		resp, err = m.auth.Login(ctx, username, password)
		return err
	})
	if err != nil {
		return err
	}
	return m.applyLogin(ctx, resp)
}

func (m *Machine) applyLogin(ctx context.Context, resp *contract.LoginResponse) error {
	switch {
	case resp.OTPEnabled && resp.OTPVerified && resp.Token == "":
		m.mu.Lock()
		m.state.PendingTwoFactorToken = resp.TwoFactorToken
		err := m.fireLocked(EventChallengeIssued)
		m.mu.Unlock()
		m.logger.InfoContext(ctx, "login requires otp challenge")
		return err

	case !resp.OTPVerified && resp.OTPAuthURL != "":
		m.mu.Lock()
		m.state.PendingTwoFactorToken = resp.TwoFactorToken
		m.state.ProvisioningURI = resp.OTPAuthURL
		m.state.QRCodeURL = QRCodeURL(resp.OTPAuthURL)
		err := m.fireLocked(EventSetupRequired)
		m.mu.Unlock()
		m.logger.InfoContext(ctx, "login requires otp setup")
		return err
	}

	// A terminal response lands on Home like SubmitOTP does. Without a token
	// the lists stay empty until the operator logs in again.
	if resp.Token != "" {
		m.persistToken(ctx, resp.Token)
	} else {
		m.logger.WarnContext(ctx, "login succeeded without a session token")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Token = resp.Token
	return m.fireLocked(EventAuthenticated)
}

// StartOTPSetup enrols a new authenticator from Home.
func (m *Machine) StartOTPSetup(ctx context.Context) error {
	m.mu.Lock()
	screen := m.state.Screen
	m.mu.Unlock()
	if screen != ScreenHome {
		return fmt.Errorf("%w: otp setup from %s", ErrInvalidTransition, screen)
	}

	var resp *contract.GenerateOTPResponse
	err := m.run(ctx, FallbackOTPSetup, func(ctx context.Context) error {
		var err error
		resp, err = m.auth.GenerateOTP(ctx)
		return err
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Screen != ScreenHome {
		return nil
	}
	m.state.ProvisioningURI = resp.QRCode
	m.state.QRCodeURL = QRCodeURL(resp.QRCode)
	return m.fireLocked(EventSetupRequired)
}

// SubmitOTP sends code for the OTP step on screen: verification while
// enrolling, validation while challenged. Success always lands on Home.
func (m *Machine) SubmitOTP(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	m.mu.Lock()
	screen := m.state.Screen
	twoFactor := m.state.PendingTwoFactorToken
	m.mu.Unlock()

	var (
		fallback string
		call     func(context.Context, string, string) (*contract.OTPResponse, error)
	)
	switch screen {
	case ScreenOTPSetup:
		fallback, call = FallbackOTPVerify, m.auth.VerifyOTP
	case ScreenOTPChallenge:
		fallback, call = FallbackOTPCheck, m.auth.ValidateOTP
	default:
		return fmt.Errorf("%w: submit otp from %s", ErrInvalidTransition, screen)
	}
	if code == "" {
		return m.reject(MsgCodeRequired)
	}

	var resp *contract.OTPResponse
	err := m.run(ctx, fallback, func(ctx context.Context) error {
		var err error
		resp, err = call(ctx, code, twoFactor)
		return err
	})
	if err != nil {
		return err
	}

	if resp.Token != "" {
		m.persistToken(ctx, resp.Token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Screen != screen {
		return nil
	}
	if resp.Token != "" {
		m.state.Token = resp.Token
	}
	m.logger.InfoContext(ctx, "otp accepted", "screen", screen.String())
	return m.fireLocked(EventAuthenticated)
}

// Cancel leaves an OTP screen: back to Home with a token, else to Login.
func (m *Machine) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Err = ""
	if m.state.Token != "" {
		return m.fireLocked(EventResume)
	}
	return m.fireLocked(EventAbandon)
}

// Logout forgets the session locally and on disk.
func (m *Machine) Logout(ctx context.Context) {
	m.endSession(ctx, EventLogout)
}

func (m *Machine) ShowAdmins() error {
	return m.navigate(EventShowAdmins)
}

func (m *Machine) ShowInvites() error {
	return m.navigate(EventShowInvites)
}

func (m *Machine) navigate(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Err = ""
	return m.fireLocked(ev)
}

// Do runs one operator action: it clears the previous error, holds the
// loading flag while fn runs, and turns a failure into the single visible
// message (the server's, else fallback). A rejected token ends the session.
// The error from fn is returned unchanged.
func (m *Machine) Do(ctx context.Context, fallback string, fn func(ctx context.Context) error) error {
	return m.run(ctx, fallback, fn)
}

// Fail shows msg as the current error without running anything.
func (m *Machine) Fail(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Err = msg
}

// ClearError hides the current error.
func (m *Machine) ClearError() {
	m.Fail("")
}

func (m *Machine) run(ctx context.Context, fallback string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.state.Err = ""
	m.inflight++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inflight--
		m.mu.Unlock()
	}()

	err := fn(ctx)
	if err == nil {
		return nil
	}

	m.mu.Lock()
	authenticated := m.state.Token != ""
	m.mu.Unlock()
	if authenticated && dErrors.IsUnauthorized(err) {
		m.logger.WarnContext(ctx, "session rejected by server", "error", err)
		m.endSession(ctx, EventUnauthorized)
		return err
	}

	m.logger.DebugContext(ctx, "action failed",
		"fallback", fallback,
		"status", dErrors.StatusOf(err),
		"error", err,
	)
	m.Fail(dErrors.Describe(err, fallback))
	return err
}

func (m *Machine) reject(msg string) error {
	m.Fail(msg)
	return dErrors.New(dErrors.CodeValidation, msg)
}

func (m *Machine) endSession(ctx context.Context, ev Event) {
	m.persistToken(ctx, "")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Token = ""
	m.state.Err = ""
	m.state.PendingTwoFactorToken = ""
	m.state.ProvisioningURI = ""
	m.state.QRCodeURL = ""
	// Logout and unauthorized have an edge from every screen.
	_ = m.fireLocked(ev)
}

// persistToken writes through to the preference store. A failed write keeps
// the in-memory session working; only the next start is affected.
func (m *Machine) persistToken(ctx context.Context, token string) {
	if err := prefs.SaveToken(ctx, m.store, token); err != nil {
		m.logger.ErrorContext(ctx, "failed to persist session token", "error", err)
	}
}

func (m *Machine) fireLocked(ev Event) error {
	from := m.state.Screen
	next, ok := Next(from, ev)
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, from)
	}
	if from.isOTP() && !next.isOTP() {
		m.state.PendingTwoFactorToken = ""
		m.state.ProvisioningURI = ""
		m.state.QRCodeURL = ""
	}
	m.state.Screen = next
	return nil
}

// QRCodeURL returns an image URL for an OTP provisioning payload. otpauth
// URIs are rendered through the public QR service; anything else is assumed
// to already be an image reference.
func QRCodeURL(payload string) string {
	if payload == "" {
		return ""
	}
	if !strings.HasPrefix(payload, "otpauth://") {
		return payload
	}
	return qrImageEndpoint + url.QueryEscape(payload)
}
