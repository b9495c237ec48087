// Package console wires one operator session together: the preference
// store, the API client switch, the session machine and the invite and admin
// controllers. It applies the rule that entering an authenticated screen
// refetches both lists.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"invitedesk/internal/admins"
	"invitedesk/internal/api"
	"invitedesk/internal/demo"
	"invitedesk/internal/display"
	"invitedesk/internal/invites"
	"invitedesk/internal/platform/config"
	"invitedesk/internal/platform/tracer"
	"invitedesk/internal/prefs"
	"invitedesk/internal/session"
	"invitedesk/pkg/platform/circuit"
)

// Deps are the collaborators of a Console.
type Deps struct {
	Config config.Console
	Store  prefs.Store
	// Backend serves demo mode. New builds one when nil.
	Backend    *demo.Backend
	HTTPClient api.HTTPDoer
	Tracer     tracer.Tracer
	Logger     *slog.Logger
	Formatter  display.Formatter
	// DarkDefault is the theme used when none is persisted.
	DarkDefault bool
	// OnHandlesResolved runs after background handle resolution adds entries.
	OnHandlesResolved func()
}

// Console is safe for concurrent use.
type Console struct {
	store  prefs.Store
	logger *slog.Logger

	client   *api.Switch
	machine  *session.Machine
	resolver *invites.Resolver
	invites  *invites.Controller
	admins   *admins.Controller

	mu   sync.Mutex
	dark bool
}

func New(ctx context.Context, deps Deps) (*Console, error) {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Tracer == nil {
		deps.Tracer = tracer.NewNoop()
	}
	if deps.Store == nil {
		deps.Store = prefs.NewMemoryStore()
	}
	if deps.Backend == nil {
		backend, err := demo.New(demo.Config{Logger: deps.Logger})
		if err != nil {
			return nil, fmt.Errorf("start demo backend: %w", err)
		}
		deps.Backend = backend
	}

	token, err := prefs.Token(ctx, deps.Store)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	host, demoMode, err := connection(ctx, deps.Store, deps.Config)
	if err != nil {
		return nil, err
	}

	var machine *session.Machine
	client := api.NewSwitch(api.NewFactory(api.FactoryConfig{
		DirectoryURL: deps.Config.DirectoryURL,
		Timeout:      deps.Config.HTTPTimeout,
		HTTPClient:   deps.HTTPClient,
		Tokens:       api.TokenSourceFunc(func(ctx context.Context) (string, error) { return machine.Token(ctx) }),
		Tracer:       deps.Tracer,
		Logger:       deps.Logger,
		Backend:      deps.Backend,
		Latency:      deps.Config.DemoLatency,
	}))
	if err := client.Select(api.ModeFor(demoMode), host); err != nil {
		return nil, fmt.Errorf("select api client: %w", err)
	}
	machine = session.New(session.Config{
		Auth:   client,
		Store:  deps.Store,
		Token:  token,
		Logger: deps.Logger,
	})

	resolver := invites.NewResolver(invites.ResolverConfig{
		Directory:   client,
		Concurrency: deps.Config.ResolveConcurrency,
		Breaker:     circuit.New("directory"),
		Logger:      deps.Logger,
		OnResolved:  deps.OnHandlesResolved,
	})

	dark, ok, err := prefs.Theme(ctx, deps.Store)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	c := &Console{
		store:    deps.Store,
		logger:   deps.Logger,
		client:   client,
		machine:  machine,
		resolver: resolver,
		invites: invites.New(invites.Config{
			API:       client,
			Runner:    machine,
			Resolver:  resolver,
			Formatter: deps.Formatter,
			Logger:    deps.Logger,
		}),
		admins: admins.New(client, machine, deps.Logger),
		dark:   deps.DarkDefault,
	}
	if ok {
		c.dark = dark == prefs.ThemeDark
	}
	deps.Logger.InfoContext(ctx, "console ready",
		"mode", string(client.Mode()),
		"host", host,
		"resumed", token != "",
	)
	return c, nil
}

func connection(ctx context.Context, store prefs.Store, cfg config.Console) (string, bool, error) {
	host, err := prefs.APIHost(ctx, store)
	if err != nil {
		return "", false, fmt.Errorf("read api host: %w", err)
	}
	if host == "" {
		host = cfg.APIHost
	}
	demoMode, set, err := prefs.DemoMode(ctx, store)
	if err != nil {
		return "", false, fmt.Errorf("read demo mode: %w", err)
	}
	if !set {
		demoMode = cfg.DemoMode
	}
	return config.NormalizeHost(host), demoMode, nil
}

func (c *Console) Snapshot() session.State {
	return c.machine.Snapshot()
}

func (c *Console) Invites() *invites.Controller {
	return c.invites
}

func (c *Console) Admins() *admins.Controller {
	return c.admins
}

// Connection reports the active API host and whether demo mode is on.
func (c *Console) Connection() (string, bool) {
	return c.client.Host(), c.client.Mode() == api.ModeSimulated
}

// Configure persists the API host and demo flag and switches the client to
// them. A blank host keeps the current one.
func (c *Console) Configure(ctx context.Context, host string, demoMode bool) error {
	host = strings.TrimSpace(host)
	if host != "" {
		host = config.NormalizeHost(host)
	}
	if err := prefs.SaveConnection(ctx, c.store, host, demoMode); err != nil {
		c.logger.ErrorContext(ctx, "failed to persist connection settings", "error", err)
	}
	if host == "" {
		host = c.client.Host()
	}
	if err := c.client.Select(api.ModeFor(demoMode), host); err != nil {
		c.machine.Fail(err.Error())
		return err
	}
	c.logger.InfoContext(ctx, "api client selected", "mode", string(c.client.Mode()), "host", host)
	return nil
}

func (c *Console) Login(ctx context.Context, username, password string) error {
	if err := c.machine.Login(ctx, username, password); err != nil {
		return err
	}
	return c.refreshIfAuthenticated(ctx)
}

func (c *Console) SubmitOTP(ctx context.Context, code string) error {
	if err := c.machine.SubmitOTP(ctx, code); err != nil {
		return err
	}
	return c.refreshIfAuthenticated(ctx)
}

func (c *Console) StartOTPSetup(ctx context.Context) error {
	return c.machine.StartOTPSetup(ctx)
}

func (c *Console) Cancel(ctx context.Context) error {
	if err := c.machine.Cancel(); err != nil {
		return err
	}
	return c.refreshIfAuthenticated(ctx)
}

// ClearError hides the current error message.
func (c *Console) ClearError() {
	c.machine.ClearError()
}

func (c *Console) Logout(ctx context.Context) {
	c.admins.ClearTransient()
	c.machine.Logout(ctx)
}

func (c *Console) ShowAdmins(ctx context.Context) error {
	if err := c.machine.ShowAdmins(); err != nil {
		return err
	}
	return c.refreshIfAuthenticated(ctx)
}

func (c *Console) ShowInvites(ctx context.Context) error {
	c.admins.ClearTransient()
	if err := c.machine.ShowInvites(); err != nil {
		return err
	}
	return c.refreshIfAuthenticated(ctx)
}

// Refresh refetches invites and then admins. A rejected token ends the
// session after the first fetch, so the second is skipped. When the invites
// fetch fails its message stays up whatever the admins fetch does.
func (c *Console) Refresh(ctx context.Context) error {
	invErr := c.invites.Refresh(ctx)
	if invErr != nil && !c.machine.Snapshot().Authenticated() {
		return invErr
	}
	shown := c.machine.Snapshot().Err
	admErr := c.admins.Refresh(ctx)
	if invErr == nil {
		return admErr
	}
	if c.machine.Snapshot().Authenticated() {
		c.machine.Fail(shown)
	}
	return invErr
}

func (c *Console) refreshIfAuthenticated(ctx context.Context) error {
	snap := c.machine.Snapshot()
	if !snap.Authenticated() || !snap.Screen.Authenticated() {
		return nil
	}
	return c.Refresh(ctx)
}

// Wait blocks until background handle resolution started so far is done.
func (c *Console) Wait() {
	c.resolver.Wait()
}

// Dark reports whether the dark theme is active.
func (c *Console) Dark() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dark
}

// ToggleTheme flips and persists the theme, returning the new value.
func (c *Console) ToggleTheme(ctx context.Context) bool {
	c.mu.Lock()
	c.dark = !c.dark
	dark := c.dark
	c.mu.Unlock()
	if err := prefs.SaveTheme(ctx, c.store, dark); err != nil {
		c.logger.ErrorContext(ctx, "failed to persist theme", "error", err)
	}
	return dark
}
