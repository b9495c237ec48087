package invites

// Package invites hosts the wire DTOs of the invite manager HTTP API. The
// console's live client and the demo backend both speak these shapes, so they
// are kept apart from either side's internal models.

// ContractVersion identifies the contract schema version for compatibility checks.
const ContractVersion = "v1.0.0"

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries either a final session token, an OTP setup payload,
// or a two-factor challenge token.
type LoginResponse struct {
	Token          string `json:"token,omitempty"`
	OTPEnabled     bool   `json:"otp_enabled,omitempty"`
	OTPVerified    bool   `json:"otp_verified,omitempty"`
	OTPAuthURL     string `json:"otp_auth_url,omitempty"`
	TwoFactorToken string `json:"two_factor_token,omitempty"`
}

// InviteUse records one redemption of an invite code.
type InviteUse struct {
	UsedBy string `json:"usedBy"`
	UsedAt string `json:"usedAt"`
}

// InviteCode is the server's view of one code. CreatedAt is passed through
// as sent, it may be empty or malformed.
type InviteCode struct {
	Code       string      `json:"code"`
	Available  int         `json:"available"`
	Disabled   bool        `json:"disabled"`
	ForAccount string      `json:"forAccount"`
	CreatedBy  string      `json:"createdBy"`
	CreatedAt  string      `json:"createdAt"`
	Uses       []InviteUse `json:"uses"`
}

// InviteCodesResponse is returned by GET /api/invite-codes.
type InviteCodesResponse struct {
	Codes  []InviteCode `json:"codes"`
	Cursor string       `json:"cursor,omitempty"`
}

type CreateInviteCodesRequest struct {
	CodeCount int `json:"codeCount"`
	UseCount  int `json:"useCount"`
}

type DisableInviteCodeRequest struct {
	Code string `json:"code"`
}

type Admin struct {
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

type AdminsResponse struct {
	Admins []Admin `json:"admins"`
}

type AddAdminRequest struct {
	Username string `json:"username"`
}

// AddAdminResponse may carry a generated one-time password for the new admin.
type AddAdminResponse struct {
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	Password string `json:"password,omitempty"`
}

// GenerateOTPResponse carries the otpauth provisioning URI in QRCode.
type GenerateOTPResponse struct {
	QRCode string `json:"qr_code"`
}

// OTPRequest is the body of the verify and validate endpoints. Token is the
// six digit code typed by the operator.
type OTPRequest struct {
	Token          string `json:"token"`
	TwoFactorToken string `json:"two_factor_token,omitempty"`
}

// OTPResponse acknowledges a verify or validate call, optionally with a
// final session token.
type OTPResponse struct {
	Success bool   `json:"success,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Ack is the generic success body for mutations.
type Ack struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// DIDDocument is the subset of a DID document the console reads.
type DIDDocument struct {
	ID          string   `json:"id"`
	AlsoKnownAs []string `json:"alsoKnownAs"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
