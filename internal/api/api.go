// Package api reaches the invite manager backend.
//
// Client is the one capability set the rest of the console depends on. It is
// implemented by LiveClient (HTTP against a configurable base URL) and by
// SimulatedClient (the in-process demo backend behind artificial latency).
// Switch holds whichever is active for the configured Mode.
package api

import (
	"context"
	"net/http"

	contract "invitedesk/contracts/invites"
)

// Client is the invite manager API. Errors are domain errors from
// pkg/domain-errors: CodeUnauthorized when credentials or the bearer token
// are rejected, CodeAPI for other non-success responses, CodeNetwork when no
// response arrived.
type Client interface {
	Login(ctx context.Context, username, password string) (*contract.LoginResponse, error)
	ListInvites(ctx context.Context) (*contract.InviteCodesResponse, error)
	CreateInvites(ctx context.Context, count int) error
	DisableInvite(ctx context.Context, code string) error
	ListAdmins(ctx context.Context) (*contract.AdminsResponse, error)
	AddAdmin(ctx context.Context, username string) (*contract.AddAdminResponse, error)
	RemoveAdmin(ctx context.Context, username string) error
	GenerateOTP(ctx context.Context) (*contract.GenerateOTPResponse, error)
	VerifyOTP(ctx context.Context, code, twoFactorToken string) (*contract.OTPResponse, error)
	ValidateOTP(ctx context.Context, code, twoFactorToken string) (*contract.OTPResponse, error)
	// ResolveIdentifier fetches the DID document for did from the directory.
	ResolveIdentifier(ctx context.Context, did string) (*contract.DIDDocument, error)
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource yields the persisted bearer token, "" when logged out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Endpoint paths, relative to the normalized base URL.
const (
	pathLogin         = "api/auth/login"
	pathInviteCodes   = "api/invite-codes"
	pathCreateInvites = "api/create-invite-codes"
	pathDisableInvite = "api/disable-invite-codes"
	pathAdmins        = "api/admins"
	pathOTPGenerate   = "api/auth/otp/generate"
	pathOTPVerify     = "api/auth/otp/verify"
	pathOTPValidate   = "api/auth/otp/validate"
)

// usesPerCode is the use budget of every code the console creates.
const usesPerCode = 1
