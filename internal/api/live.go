package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	contract "invitedesk/contracts/invites"
	"invitedesk/internal/platform/config"
	"invitedesk/internal/platform/tracer"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// LiveConfig configures a LiveClient.
type LiveConfig struct {
	BaseURL      string
	DirectoryURL string
	Timeout      time.Duration
	HTTPClient   HTTPDoer
	Tokens       TokenSource
	Tracer       tracer.Tracer
	Logger       *slog.Logger
}

// LiveClient talks to a real invite manager over HTTP.
type LiveClient struct {
	base      *url.URL
	directory *url.URL
	doer      HTTPDoer
	tracer    tracer.Tracer
	logger    *slog.Logger
}

// NewLive builds a LiveClient. The base URL is normalized to end in "/" and
// every endpoint path is resolved against it.
func NewLive(cfg LiveConfig) (*LiveClient, error) {
	base, err := url.Parse(config.NormalizeHost(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api host: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api host %q must be http or https", cfg.BaseURL)
	}
	dirURL := cfg.DirectoryURL
	if dirURL == "" {
		dirURL = config.DefaultDirectoryURL
	}
	directory, err := url.Parse(strings.TrimSuffix(dirURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse directory url: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	var doer HTTPDoer = cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracer.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LiveClient{
		base:      base,
		directory: directory,
		doer:      newBearerDoer(doer, cfg.Tokens, base),
		tracer:    cfg.Tracer,
		logger:    cfg.Logger,
	}, nil
}

// BaseURL returns the normalized API base.
func (c *LiveClient) BaseURL() string {
	return c.base.String()
}

func (c *LiveClient) Login(ctx context.Context, username, password string) (resp *contract.LoginResponse, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanLogin, tracer.String(tracer.AttrUsername, tracer.HashUsername(username)))
	defer func() { span.End(err) }()

	resp = &contract.LoginResponse{}
	body := contract.LoginRequest{Username: username, Password: password}
	if err = c.call(ctx, http.MethodPost, c.endpoint(pathLogin), body, resp); err != nil {
		return nil, err
	}
	span.SetAttributes(
		tracer.Bool("otp.enabled", resp.OTPEnabled),
		tracer.Bool("otp.verified", resp.OTPVerified),
	)
	return resp, nil
}

func (c *LiveClient) ListInvites(ctx context.Context) (resp *contract.InviteCodesResponse, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanListInvites)
	defer func() { span.End(err) }()

	resp = &contract.InviteCodesResponse{}
	if err = c.call(ctx, http.MethodGet, c.endpoint(pathInviteCodes), nil, resp); err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.Int(tracer.AttrCodeCount, len(resp.Codes)))
	return resp, nil
}

func (c *LiveClient) CreateInvites(ctx context.Context, count int) (err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanCreateInvites, tracer.Int(tracer.AttrCodeCount, count))
	defer func() { span.End(err) }()

	body := contract.CreateInviteCodesRequest{CodeCount: count, UseCount: usesPerCode}
	return c.call(ctx, http.MethodPost, c.endpoint(pathCreateInvites), body, nil)
}

func (c *LiveClient) DisableInvite(ctx context.Context, code string) (err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanDisableInvite)
	defer func() { span.End(err) }()

	return c.call(ctx, http.MethodPost, c.endpoint(pathDisableInvite), contract.DisableInviteCodeRequest{Code: code}, nil)
}

func (c *LiveClient) ListAdmins(ctx context.Context) (resp *contract.AdminsResponse, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanListAdmins)
	defer func() { span.End(err) }()

	resp = &contract.AdminsResponse{}
	if err = c.call(ctx, http.MethodGet, c.endpoint(pathAdmins), nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *LiveClient) AddAdmin(ctx context.Context, username string) (resp *contract.AddAdminResponse, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanAddAdmin, tracer.String(tracer.AttrUsername, tracer.HashUsername(username)))
	defer func() { span.End(err) }()

	resp = &contract.AddAdminResponse{}
	if err = c.call(ctx, http.MethodPost, c.endpoint(pathAdmins), contract.AddAdminRequest{Username: username}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *LiveClient) RemoveAdmin(ctx context.Context, username string) (err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanRemoveAdmin, tracer.String(tracer.AttrUsername, tracer.HashUsername(username)))
	defer func() { span.End(err) }()

	return c.call(ctx, http.MethodDelete, c.endpoint(pathAdmins+"/"+url.PathEscape(username)), nil, nil)
}

func (c *LiveClient) GenerateOTP(ctx context.Context) (resp *contract.GenerateOTPResponse, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanGenerateOTP)
	defer func() { span.End(err) }()

	resp = &contract.GenerateOTPResponse{}
	if err = c.call(ctx, http.MethodGet, c.endpoint(pathOTPGenerate), nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *LiveClient) VerifyOTP(ctx context.Context, code, twoFactorToken string) (resp *contract.OTPResponse, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanVerifyOTP)
	defer func() { span.End(err) }()

	return c.otp(ctx, pathOTPVerify, code, twoFactorToken)
}

func (c *LiveClient) ValidateOTP(ctx context.Context, code, twoFactorToken string) (resp *contract.OTPResponse, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanValidateOTP)
	defer func() { span.End(err) }()

	return c.otp(ctx, pathOTPValidate, code, twoFactorToken)
}

func (c *LiveClient) otp(ctx context.Context, path, code, twoFactorToken string) (*contract.OTPResponse, error) {
	resp := &contract.OTPResponse{}
	body := contract.OTPRequest{Token: code, TwoFactorToken: twoFactorToken}
	if err := c.call(ctx, http.MethodPost, c.endpoint(path), body, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *LiveClient) ResolveIdentifier(ctx context.Context, did string) (doc *contract.DIDDocument, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanResolveIdentifier, tracer.String(tracer.AttrIdentifier, did))
	defer func() { span.End(err) }()

	doc = &contract.DIDDocument{}
	target := c.directory.ResolveReference(&url.URL{Path: did})
	if err = c.call(ctx, http.MethodGet, target.String(), nil, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// endpoint resolves an already escaped relative path against the base URL.
func (c *LiveClient) endpoint(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		ref = &url.URL{Path: path}
	}
	return c.base.ResolveReference(ref).String()
}

// call sends one JSON request and decodes a 2xx body into out when out is
// non-nil. An empty 2xx body leaves out untouched.
func (c *LiveClient) call(ctx context.Context, method, target string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed",
			"method", method,
			"url", target,
			"error", err,
		)
		return networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return networkError(fmt.Errorf("read response: %w", err))
	}
	c.logger.DebugContext(ctx, "api request",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return decodeError(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

var _ Client = (*LiveClient)(nil)
