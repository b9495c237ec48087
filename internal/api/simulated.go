package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	contract "invitedesk/contracts/invites"
	"invitedesk/internal/demo"
	"invitedesk/internal/platform/tracer"
	dErrors "invitedesk/pkg/domain-errors"
	"invitedesk/pkg/platform/httputil"
)

// SimulatedConfig configures a SimulatedClient.
type SimulatedConfig struct {
	Backend *demo.Backend
	// Latency is slept before every call to mimic a remote service.
	Latency time.Duration
	Tokens  TokenSource
	Tracer  tracer.Tracer
	Logger  *slog.Logger
}

// SimulatedClient serves every call from an in-process demo backend. It
// presents the persisted bearer token exactly like the live client and maps
// backend failures onto the same error taxonomy.
type SimulatedClient struct {
	backend *demo.Backend
	latency time.Duration
	tokens  TokenSource
	tracer  tracer.Tracer
	logger  *slog.Logger
}

func NewSimulated(cfg SimulatedConfig) *SimulatedClient {
	if cfg.Tracer == nil {
		cfg.Tracer = tracer.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Tokens == nil {
		cfg.Tokens = TokenSourceFunc(func(context.Context) (string, error) { return "", nil })
	}
	return &SimulatedClient{
		backend: cfg.Backend,
		latency: cfg.Latency,
		tokens:  cfg.Tokens,
		tracer:  cfg.Tracer,
		logger:  cfg.Logger,
	}
}

func (c *SimulatedClient) Login(ctx context.Context, username, password string) (resp *contract.LoginResponse, err error) {
	ctx, span := c.start(ctx, tracer.SpanLogin)
	defer func() { span.End(err) }()
	if err = c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err = c.backend.Login(ctx, username, password)
	return resp, fromBackend(err)
}

func (c *SimulatedClient) ListInvites(ctx context.Context) (resp *contract.InviteCodesResponse, err error) {
	ctx, span := c.start(ctx, tracer.SpanListInvites)
	defer func() { span.End(err) }()
	bearer, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	resp, err = c.backend.ListInvites(ctx, bearer)
	return resp, fromBackend(err)
}

func (c *SimulatedClient) CreateInvites(ctx context.Context, count int) (err error) {
	ctx, span := c.start(ctx, tracer.SpanCreateInvites, tracer.Int(tracer.AttrCodeCount, count))
	defer func() { span.End(err) }()
	bearer, err := c.bearer(ctx)
	if err != nil {
		return err
	}
	_, err = c.backend.CreateInvites(ctx, bearer, contract.CreateInviteCodesRequest{CodeCount: count, UseCount: usesPerCode})
	return fromBackend(err)
}

func (c *SimulatedClient) DisableInvite(ctx context.Context, code string) (err error) {
	ctx, span := c.start(ctx, tracer.SpanDisableInvite)
	defer func() { span.End(err) }()
	bearer, err := c.bearer(ctx)
	if err != nil {
		return err
	}
	_, err = c.backend.DisableInvite(ctx, bearer, contract.DisableInviteCodeRequest{Code: code})
	return fromBackend(err)
}

func (c *SimulatedClient) ListAdmins(ctx context.Context) (resp *contract.AdminsResponse, err error) {
	ctx, span := c.start(ctx, tracer.SpanListAdmins)
	defer func() { span.End(err) }()
	bearer, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	resp, err = c.backend.ListAdmins(ctx, bearer)
	return resp, fromBackend(err)
}

func (c *SimulatedClient) AddAdmin(ctx context.Context, username string) (resp *contract.AddAdminResponse, err error) {
	ctx, span := c.start(ctx, tracer.SpanAddAdmin)
	defer func() { span.End(err) }()
	bearer, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	resp, err = c.backend.AddAdmin(ctx, bearer, contract.AddAdminRequest{Username: username})
	return resp, fromBackend(err)
}

func (c *SimulatedClient) RemoveAdmin(ctx context.Context, username string) (err error) {
	ctx, span := c.start(ctx, tracer.SpanRemoveAdmin)
	defer func() { span.End(err) }()
	bearer, err := c.bearer(ctx)
	if err != nil {
		return err
	}
	_, err = c.backend.RemoveAdmin(ctx, bearer, username)
	return fromBackend(err)
}

func (c *SimulatedClient) GenerateOTP(ctx context.Context) (resp *contract.GenerateOTPResponse, err error) {
	ctx, span := c.start(ctx, tracer.SpanGenerateOTP)
	defer func() { span.End(err) }()
	bearer, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	resp, err = c.backend.GenerateOTP(ctx, bearer)
	return resp, fromBackend(err)
}

func (c *SimulatedClient) VerifyOTP(ctx context.Context, code, twoFactorToken string) (resp *contract.OTPResponse, err error) {
	ctx, span := c.start(ctx, tracer.SpanVerifyOTP)
	defer func() { span.End(err) }()
	bearer, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	resp, err = c.backend.VerifyOTP(ctx, bearer, contract.OTPRequest{Token: code, TwoFactorToken: twoFactorToken})
	return resp, fromBackend(err)
}

func (c *SimulatedClient) ValidateOTP(ctx context.Context, code, twoFactorToken string) (resp *contract.OTPResponse, err error) {
	ctx, span := c.start(ctx, tracer.SpanValidateOTP)
	defer func() { span.End(err) }()
	if err = c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err = c.backend.ValidateOTP(ctx, contract.OTPRequest{Token: code, TwoFactorToken: twoFactorToken})
	return resp, fromBackend(err)
}

func (c *SimulatedClient) ResolveIdentifier(ctx context.Context, did string) (doc *contract.DIDDocument, err error) {
	ctx, span := c.start(ctx, tracer.SpanResolveIdentifier, tracer.String(tracer.AttrIdentifier, did))
	defer func() { span.End(err) }()
	if err = c.wait(ctx); err != nil {
		return nil, err
	}
	doc, err = c.backend.ResolveDID(ctx, did)
	return doc, fromBackend(err)
}

func (c *SimulatedClient) start(ctx context.Context, name string, attrs ...tracer.Attribute) (context.Context, tracer.Span) {
	attrs = append(attrs,
		tracer.String(tracer.AttrMode, string(ModeSimulated)),
		tracer.Duration(tracer.AttrSimulatedLatency, c.latency),
	)
	c.logger.DebugContext(ctx, "simulated api call", "operation", name)
	return c.tracer.Start(ctx, name, attrs...)
}

// bearer waits out the simulated latency and then reads the token, so a
// logout during the wait is observed the same way a live request would.
func (c *SimulatedClient) bearer(ctx context.Context) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (c *SimulatedClient) wait(ctx context.Context) error {
	if c.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return networkError(err)
		}
		return nil
	}
	timer := time.NewTimer(c.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return networkError(ctx.Err())
	}
}

// fromBackend maps backend errors the way the live client maps HTTP
// statuses: every domain error becomes the status the demo server would have
// sent for it.
func fromBackend(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		return statusError(http.StatusInternalServerError, "", err)
	}
	return statusError(httputil.DomainCodeToHTTPStatus(domainErr.Code), domainErr.Message, err)
}

var _ Client = (*SimulatedClient)(nil)
