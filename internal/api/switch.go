package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	contract "invitedesk/contracts/invites"
	"invitedesk/internal/demo"
	"invitedesk/internal/platform/tracer"
	dErrors "invitedesk/pkg/domain-errors"
)

// Mode names the backend a Switch routes calls to.
type Mode string

const (
	ModeLive      Mode = "live"
	ModeSimulated Mode = "simulated"
)

// ModeFor maps the persisted demo flag onto a Mode.
func ModeFor(demoMode bool) Mode {
	if demoMode {
		return ModeSimulated
	}
	return ModeLive
}

// Factory builds the client for a mode. host is ignored in simulated mode.
type Factory func(mode Mode, host string) (Client, error)

// FactoryConfig holds what both client kinds need.
type FactoryConfig struct {
	DirectoryURL string
	Timeout      time.Duration
	HTTPClient   HTTPDoer
	Tokens       TokenSource
	Tracer       tracer.Tracer
	Logger       *slog.Logger

	// Backend serves simulated mode. It is shared across switches so demo
	// state survives toggling between modes.
	Backend *demo.Backend
	Latency time.Duration
}

// NewFactory returns a Factory producing live or simulated clients.
func NewFactory(cfg FactoryConfig) Factory {
	return func(mode Mode, host string) (Client, error) {
		switch mode {
		case ModeSimulated:
			if cfg.Backend == nil {
				return nil, fmt.Errorf("simulated mode needs a demo backend")
			}
			return NewSimulated(SimulatedConfig{
				Backend: cfg.Backend,
				Latency: cfg.Latency,
				Tokens:  cfg.Tokens,
				Tracer:  cfg.Tracer,
				Logger:  cfg.Logger,
			}), nil
		case ModeLive:
			return NewLive(LiveConfig{
				BaseURL:      host,
				DirectoryURL: cfg.DirectoryURL,
				Timeout:      cfg.Timeout,
				HTTPClient:   cfg.HTTPClient,
				Tokens:       cfg.Tokens,
				Tracer:       cfg.Tracer,
				Logger:       cfg.Logger,
			})
		default:
			return nil, fmt.Errorf("unknown api mode %q", mode)
		}
	}
}

// Switch is a Client that forwards to whichever implementation was selected
// last. Calls already in flight keep the client they started with.
type Switch struct {
	factory Factory

	mu     sync.RWMutex
	active Client
	mode   Mode
	host   string
}

func NewSwitch(factory Factory) *Switch {
	return &Switch{factory: factory}
}

// Select builds and activates the client for mode and host. On failure the
// previous client stays active.
func (s *Switch) Select(mode Mode, host string) error {
	client, err := s.factory(mode, host)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = client
	s.mode = mode
	s.host = host
	return nil
}

// Mode reports the active mode, "" before the first Select.
func (s *Switch) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Host reports the host the active client was built for.
func (s *Switch) Host() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.host
}

var errNoClient = &dErrors.Error{Code: dErrors.CodeNetwork, Err: errors.New("no api client selected")}

func (s *Switch) current() (Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil, errNoClient
	}
	return s.active, nil
}

func (s *Switch) Login(ctx context.Context, username, password string) (*contract.LoginResponse, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.Login(ctx, username, password)
}

func (s *Switch) ListInvites(ctx context.Context) (*contract.InviteCodesResponse, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.ListInvites(ctx)
}

func (s *Switch) CreateInvites(ctx context.Context, count int) error {
	c, err := s.current()
	if err != nil {
		return err
	}
	return c.CreateInvites(ctx, count)
}

func (s *Switch) DisableInvite(ctx context.Context, code string) error {
	c, err := s.current()
	if err != nil {
		return err
	}
	return c.DisableInvite(ctx, code)
}

func (s *Switch) ListAdmins(ctx context.Context) (*contract.AdminsResponse, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.ListAdmins(ctx)
}

func (s *Switch) AddAdmin(ctx context.Context, username string) (*contract.AddAdminResponse, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.AddAdmin(ctx, username)
}

func (s *Switch) RemoveAdmin(ctx context.Context, username string) error {
	c, err := s.current()
	if err != nil {
		return err
	}
	return c.RemoveAdmin(ctx, username)
}

func (s *Switch) GenerateOTP(ctx context.Context) (*contract.GenerateOTPResponse, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.GenerateOTP(ctx)
}

func (s *Switch) VerifyOTP(ctx context.Context, code, twoFactorToken string) (*contract.OTPResponse, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.VerifyOTP(ctx, code, twoFactorToken)
}

func (s *Switch) ValidateOTP(ctx context.Context, code, twoFactorToken string) (*contract.OTPResponse, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.ValidateOTP(ctx, code, twoFactorToken)
}

func (s *Switch) ResolveIdentifier(ctx context.Context, did string) (*contract.DIDDocument, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.ResolveIdentifier(ctx, did)
}

var _ Client = (*Switch)(nil)
