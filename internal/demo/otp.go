package demo

import (
	"context"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	contract "invitedesk/contracts/invites"
	dErrors "invitedesk/pkg/domain-errors"
	"invitedesk/pkg/platform/middleware/requesttime"
)

var validateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateOTP starts (or restarts) enrolment for the session's admin and
// returns the provisioning URI. An already verified secret stays active
// until the new one is verified.
func (b *Backend) GenerateOTP(ctx context.Context, bearer string) (*contract.GenerateOTPResponse, error) {
	username, err := b.Authenticate(ctx, bearer)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	admin, ok := b.admins[username]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Admin no longer exists")
	}
	uri, err := b.enrolLocked(ctx, admin)
	if err != nil {
		return nil, err
	}
	return &contract.GenerateOTPResponse{QRCode: uri}, nil
}

// VerifyOTP completes enrolment. The admin is identified by the two-factor
// token when present, otherwise by the bearer session.
func (b *Backend) VerifyOTP(ctx context.Context, bearer string, req contract.OTPRequest) (*contract.OTPResponse, error) {
	username, err := b.otpSubject(ctx, bearer, req.TwoFactorToken)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	admin, ok := b.admins[username]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Admin no longer exists")
	}
	if admin.pendingSecret == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "No OTP enrolment in progress")
	}
	if !b.checkCode(ctx, req.Token, admin.pendingSecret) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Invalid OTP code")
	}
	admin.otpSecret = admin.pendingSecret
	admin.pendingSecret = ""
	admin.otpVerified = true

	token, err := b.issueSessionLocked(ctx, username)
	if err != nil {
		return nil, err
	}
	b.logger.InfoContext(ctx, "otp enrolment verified", "username", username)
	return &contract.OTPResponse{Success: true, Token: token}, nil
}

// ValidateOTP answers a login challenge with a session token.
func (b *Backend) ValidateOTP(ctx context.Context, req contract.OTPRequest) (*contract.OTPResponse, error) {
	if req.TwoFactorToken == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Missing two-factor token")
	}
	username, err := b.tokens.parse(ctx, req.TwoFactorToken, kindChallenge)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	admin, ok := b.admins[username]
	if !ok || !admin.otpVerified {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Two-factor authentication is not enabled")
	}
	if !b.checkCode(ctx, req.Token, admin.otpSecret) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Invalid OTP code")
	}
	token, err := b.issueSessionLocked(ctx, username)
	if err != nil {
		return nil, err
	}
	b.metrics.ObserveLogin(OutcomeToken)
	return &contract.OTPResponse{Success: true, Token: token}, nil
}

// CurrentCode returns the code an authenticator would show for username's
// pending or active secret. The demo server logs it so the flow can be
// walked through without a phone.
func (b *Backend) CurrentCode(ctx context.Context, username string) (string, error) {
	b.mu.RLock()
	admin, ok := b.admins[username]
	var secret string
	if ok {
		secret = admin.pendingSecret
		if secret == "" {
			secret = admin.otpSecret
		}
	}
	b.mu.RUnlock()
	if secret == "" {
		return "", dErrors.New(dErrors.CodeNotFound, "No OTP secret for admin")
	}
	code, err := totp.GenerateCodeCustom(secret, requesttime.Now(ctx), validateOpts)
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return code, nil
}

func (b *Backend) otpSubject(ctx context.Context, bearer, twoFactorToken string) (string, error) {
	if twoFactorToken != "" {
		return b.tokens.parse(ctx, twoFactorToken, kindChallenge)
	}
	return b.Authenticate(ctx, bearer)
}

func (b *Backend) enrolLocked(ctx context.Context, admin *adminRecord) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      otpIssuer,
		AccountName: admin.username,
		Period:      validateOpts.Period,
		Digits:      validateOpts.Digits,
		Algorithm:   validateOpts.Algorithm,
	})
	if err != nil {
		return "", fmt.Errorf("generate otp secret: %w", err)
	}
	admin.pendingSecret = key.Secret()
	b.logger.InfoContext(ctx, "otp enrolment started", "username", admin.username)
	return key.URL(), nil
}

func (b *Backend) checkCode(ctx context.Context, code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, requesttime.Now(ctx), validateOpts)
	if err != nil || !ok {
		b.metrics.IncrementOTPFailures()
		return false
	}
	return true
}
