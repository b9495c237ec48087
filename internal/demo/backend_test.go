package demo

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	contract "invitedesk/contracts/invites"
	dErrors "invitedesk/pkg/domain-errors"
	"invitedesk/pkg/platform/middleware/requesttime"
)

type BackendSuite struct {
	suite.Suite
	backend *Backend
	ctx     context.Context
}

func TestBackendSuite(t *testing.T) {
	suite.Run(t, new(BackendSuite))
}

func (s *BackendSuite) SetupTest() {
	b, err := New(Config{
		SigningKey:    "test-key",
		AdminUsername: "admin",
		AdminPassword: "password",
		BcryptCost:    bcrypt.MinCost,
	})
	s.Require().NoError(err)
	s.backend = b
	s.ctx = context.Background()
}

func (s *BackendSuite) login() string {
	resp, err := s.backend.Login(s.ctx, "admin", "password")
	s.Require().NoError(err)
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (s *BackendSuite) TestLogin() {
	s.Run("correct credentials return a session token", func() {
		resp, err := s.backend.Login(s.ctx, "admin", "password")
		s.Require().NoError(err)
		s.NotEmpty(resp.Token)
		s.False(resp.OTPEnabled)

		username, err := s.backend.Authenticate(s.ctx, resp.Token)
		s.Require().NoError(err)
		s.Equal("admin", username)
	})

	s.Run("wrong password is unauthorized with a message", func() {
		_, err := s.backend.Login(s.ctx, "admin", "nope")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal("Invalid username or password", err.Error())
	})

	s.Run("unknown user is unauthorized", func() {
		_, err := s.backend.Login(s.ctx, "ghost", "password")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *BackendSuite) TestAuthenticate() {
	s.Run("empty bearer", func() {
		_, err := s.backend.Authenticate(s.ctx, "")
		s.True(dErrors.IsUnauthorized(err))
	})

	s.Run("garbage bearer", func() {
		_, err := s.backend.Authenticate(s.ctx, "not-a-jwt")
		s.True(dErrors.IsUnauthorized(err))
	})

	s.Run("expired session", func() {
		token := s.login()
		later := requesttime.WithTime(s.ctx, time.Now().Add(13*time.Hour))
		_, err := s.backend.Authenticate(later, token)
		s.True(dErrors.IsUnauthorized(err))
		s.Equal("Token expired", err.Error())
		s.ErrorIs(err, jwt.ErrTokenExpired)
	})

	s.Run("challenge token is not a session", func() {
		challenge, err := s.backend.tokens.issue(s.ctx, kindChallenge, "admin")
		s.Require().NoError(err)
		_, err = s.backend.Authenticate(s.ctx, challenge)
		s.True(dErrors.IsUnauthorized(err))
	})

	s.Run("token signed with another key", func() {
		other := newTokenIssuer("other-key", time.Hour, time.Minute)
		forged, err := other.issue(s.ctx, kindSession, "admin")
		s.Require().NoError(err)
		_, err = s.backend.Authenticate(s.ctx, forged)
		s.True(dErrors.IsUnauthorized(err))
	})
}

func (s *BackendSuite) TestInvites() {
	token := s.login()

	s.Run("seeded list is returned newest first", func() {
		resp, err := s.backend.ListInvites(s.ctx, token)
		s.Require().NoError(err)
		s.Require().NotEmpty(resp.Codes)
		s.Equal("demo-fresh-aaaaa", resp.Codes[0].Code)
		for _, c := range resp.Codes {
			s.NotNil(c.Uses)
		}
	})

	s.Run("list requires a session", func() {
		_, err := s.backend.ListInvites(s.ctx, "")
		s.True(dErrors.IsUnauthorized(err))
	})

	s.Run("create prepends unused codes", func() {
		before, _ := s.backend.ListInvites(s.ctx, token)
		ack, err := s.backend.CreateInvites(s.ctx, token, contract.CreateInviteCodesRequest{CodeCount: 3, UseCount: 1})
		s.Require().NoError(err)
		s.Equal("Created 3 codes", ack.Message)

		after, _ := s.backend.ListInvites(s.ctx, token)
		s.Len(after.Codes, len(before.Codes)+3)
		for _, c := range after.Codes[:3] {
			s.Regexp(`^demo-[a-z2-7]{5}-[a-z2-7]{5}$`, c.Code)
			s.Equal(1, c.Available)
			s.Equal("admin", c.CreatedBy)
			s.False(c.Disabled)
		}
	})

	s.Run("create rejects out of range counts", func() {
		_, err := s.backend.CreateInvites(s.ctx, token, contract.CreateInviteCodesRequest{CodeCount: 0})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		_, err = s.backend.CreateInvites(s.ctx, token, contract.CreateInviteCodesRequest{CodeCount: 101})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("disable marks the code and is idempotent", func() {
		_, err := s.backend.DisableInvite(s.ctx, token, contract.DisableInviteCodeRequest{Code: "demo-fresh-bbbbb"})
		s.Require().NoError(err)
		_, err = s.backend.DisableInvite(s.ctx, token, contract.DisableInviteCodeRequest{Code: "demo-fresh-bbbbb"})
		s.Require().NoError(err)

		resp, _ := s.backend.ListInvites(s.ctx, token)
		for _, c := range resp.Codes {
			if c.Code == "demo-fresh-bbbbb" {
				s.True(c.Disabled)
			}
		}
	})

	s.Run("disable unknown code is not found", func() {
		_, err := s.backend.DisableInvite(s.ctx, token, contract.DisableInviteCodeRequest{Code: "missing"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.backend.DisableInvite(s.ctx, token, contract.DisableInviteCodeRequest{Code: " "})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("returned snapshot is a copy", func() {
		resp, _ := s.backend.ListInvites(s.ctx, token)
		resp.Codes[0].Disabled = true
		again, _ := s.backend.ListInvites(s.ctx, token)
		s.False(again.Codes[0].Disabled)
	})
}

func (s *BackendSuite) TestAdmins() {
	token := s.login()

	s.Run("add returns a one-time password that logs in", func() {
		resp, err := s.backend.AddAdmin(s.ctx, token, contract.AddAdminRequest{Username: "  carol "})
		s.Require().NoError(err)
		s.Len(resp.Password, passwordLength)
		s.Equal("Admin carol added", resp.Message)

		login, err := s.backend.Login(s.ctx, "carol", resp.Password)
		s.Require().NoError(err)
		s.NotEmpty(login.Token)

		list, _ := s.backend.ListAdmins(s.ctx, token)
		s.Equal([]string{"admin", "carol"}, usernames(list.Admins))
	})

	s.Run("duplicate and blank usernames are rejected", func() {
		_, err := s.backend.AddAdmin(s.ctx, token, contract.AddAdminRequest{Username: "carol"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		_, err = s.backend.AddAdmin(s.ctx, token, contract.AddAdminRequest{Username: ""})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("remove deletes and invalidates sessions", func() {
		added, err := s.backend.AddAdmin(s.ctx, token, contract.AddAdminRequest{Username: "dave"})
		s.Require().NoError(err)
		daveSession, err := s.backend.Login(s.ctx, "dave", added.Password)
		s.Require().NoError(err)

		_, err = s.backend.RemoveAdmin(s.ctx, token, "dave")
		s.Require().NoError(err)

		_, err = s.backend.ListInvites(s.ctx, daveSession.Token)
		s.True(dErrors.IsUnauthorized(err))
	})

	s.Run("remove self and unknown are rejected", func() {
		_, err := s.backend.RemoveAdmin(s.ctx, token, "admin")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		_, err = s.backend.RemoveAdmin(s.ctx, token, "nobody")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *BackendSuite) TestOTPEnrolmentFromSession() {
	token := s.login()

	gen, err := s.backend.GenerateOTP(s.ctx, token)
	s.Require().NoError(err)
	uri, err := url.Parse(gen.QRCode)
	s.Require().NoError(err)
	s.Equal("otpauth", uri.Scheme)
	s.NotEmpty(uri.Query().Get("secret"))

	_, err = s.backend.VerifyOTP(s.ctx, token, contract.OTPRequest{Token: "000000"})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest), "wrong code must not end the session")

	code, err := s.backend.CurrentCode(s.ctx, "admin")
	s.Require().NoError(err)
	verified, err := s.backend.VerifyOTP(s.ctx, token, contract.OTPRequest{Token: code})
	s.Require().NoError(err)
	s.True(verified.Success)
	s.NotEmpty(verified.Token)

	s.Run("next login is challenged", func() {
		resp, err := s.backend.Login(s.ctx, "admin", "password")
		s.Require().NoError(err)
		s.Empty(resp.Token)
		s.True(resp.OTPEnabled)
		s.True(resp.OTPVerified)
		s.NotEmpty(resp.TwoFactorToken)

		code, err := s.backend.CurrentCode(s.ctx, "admin")
		s.Require().NoError(err)
		validated, err := s.backend.ValidateOTP(s.ctx, contract.OTPRequest{Token: code, TwoFactorToken: resp.TwoFactorToken})
		s.Require().NoError(err)
		s.NotEmpty(validated.Token)
	})

	s.Run("validate without challenge is unauthorized", func() {
		_, err := s.backend.ValidateOTP(s.ctx, contract.OTPRequest{Token: "123456"})
		s.True(dErrors.IsUnauthorized(err))
	})

	s.Run("verify without enrolment in progress", func() {
		_, err := s.backend.VerifyOTP(s.ctx, token, contract.OTPRequest{Token: "123456"})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *BackendSuite) TestRequireOTPLogin() {
	b, err := New(Config{BcryptCost: bcrypt.MinCost, RequireOTP: true, SkipSeed: true})
	s.Require().NoError(err)

	resp, err := b.Login(s.ctx, "admin", "password")
	s.Require().NoError(err)
	s.Empty(resp.Token)
	s.True(resp.OTPEnabled)
	s.False(resp.OTPVerified)
	s.Contains(resp.OTPAuthURL, "otpauth://totp/")
	s.NotEmpty(resp.TwoFactorToken)

	code, err := b.CurrentCode(s.ctx, "admin")
	s.Require().NoError(err)
	verified, err := b.VerifyOTP(s.ctx, "", contract.OTPRequest{Token: code, TwoFactorToken: resp.TwoFactorToken})
	s.Require().NoError(err)
	s.NotEmpty(verified.Token)

	list, err := b.ListInvites(s.ctx, verified.Token)
	s.Require().NoError(err)
	s.Empty(list.Codes)
}

func (s *BackendSuite) TestResolveDID() {
	s.Run("registered with handle", func() {
		doc, err := s.backend.ResolveDID(s.ctx, "did:plc:ewvi7nxzyoun6zhxrhs64oiz")
		s.Require().NoError(err)
		s.Equal([]string{"at://alice.northsky.social"}, doc.AlsoKnownAs)
	})

	s.Run("registered without handle", func() {
		doc, err := s.backend.ResolveDID(s.ctx, "did:plc:nohandle7x2k4m5q6r7s8t9u")
		s.Require().NoError(err)
		s.Empty(doc.AlsoKnownAs)
	})

	s.Run("unknown and malformed", func() {
		_, err := s.backend.ResolveDID(s.ctx, "did:plc:unregistered0000000000000")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.backend.ResolveDID(s.ctx, "alice")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("register handle", func() {
		s.backend.RegisterHandle("did:plc:new", "new.test")
		doc, err := s.backend.ResolveDID(s.ctx, "did:plc:new")
		s.Require().NoError(err)
		s.Equal([]string{"at://new.test"}, doc.AlsoKnownAs)
	})
}

func usernames(admins []contract.Admin) []string {
	out := make([]string, len(admins))
	for i, a := range admins {
		out[i] = a.Username
	}
	return out
}
