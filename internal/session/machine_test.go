package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	contract "invitedesk/contracts/invites"
	"invitedesk/internal/api/mocks"
	"invitedesk/internal/prefs"
	dErrors "invitedesk/pkg/domain-errors"
)

type MachineSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	client  *mocks.MockClient
	store   *prefs.MemoryStore
	machine *Machine
	ctx     context.Context
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineSuite))
}

func (s *MachineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.client = mocks.NewMockClient(s.ctrl)
	s.store = prefs.NewMemoryStore()
	s.ctx = context.Background()
	s.machine = New(Config{Auth: s.client, Store: s.store})
}

func (s *MachineSuite) storedToken() string {
	token, err := prefs.Token(s.ctx, s.store)
	s.Require().NoError(err)
	return token
}

func (s *MachineSuite) loginWithToken() {
	s.client.EXPECT().Login(gomock.Any(), "admin", "password").
		Return(&contract.LoginResponse{Token: "session"}, nil)
	s.Require().NoError(s.machine.Login(s.ctx, "admin", "password"))
}

func (s *MachineSuite) TestInitialScreen() {
	s.Equal(ScreenLogin, s.machine.Snapshot().Screen)

	resumed := New(Config{Auth: s.client, Token: "persisted"})
	snap := resumed.Snapshot()
	s.Equal(ScreenHome, snap.Screen)
	s.True(snap.Authenticated())
}

func (s *MachineSuite) TestLoginValidation() {
	s.Run("blank username", func() {
		err := s.machine.Login(s.ctx, "  ", "password")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(MsgUsernameRequired, s.machine.Snapshot().Err)
	})

	s.Run("blank password", func() {
		err := s.machine.Login(s.ctx, "admin", "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(MsgPasswordRequired, s.machine.Snapshot().Err)
	})
}

func (s *MachineSuite) TestLoginWithTokenGoesHome() {
	s.loginWithToken()

	snap := s.machine.Snapshot()
	s.Equal(ScreenHome, snap.Screen)
	s.Equal("session", snap.Token)
	s.Empty(snap.Err)
	s.False(snap.Loading)
	s.Equal("session", s.storedToken())
}

func (s *MachineSuite) TestBadCredentialsStayOnLogin() {
	s.client.EXPECT().Login(gomock.Any(), "admin", "wrong").Return(nil, &dErrors.Error{
		Code: dErrors.CodeUnauthorized, Message: "Invalid credentials", Status: http.StatusUnauthorized,
	})

	err := s.machine.Login(s.ctx, "admin", "wrong")
	s.Error(err)
	snap := s.machine.Snapshot()
	s.Equal(ScreenLogin, snap.Screen)
	s.Equal("Invalid credentials", snap.Err)
	s.Empty(s.storedToken())
}

func (s *MachineSuite) TestLoginNetworkErrorUsesFallback() {
	s.client.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &dErrors.Error{Code: dErrors.CodeNetwork, Err: errors.New("dial tcp")})

	_ = s.machine.Login(s.ctx, "admin", "password")
	s.Equal(FallbackLogin, s.machine.Snapshot().Err)
}

func (s *MachineSuite) TestLoginUnexpectedError() {
	s.client.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	_ = s.machine.Login(s.ctx, "admin", "password")
	s.Equal("An error occurred", s.machine.Snapshot().Err)
}

func (s *MachineSuite) TestLoginChallenge() {
	s.client.EXPECT().Login(gomock.Any(), "admin", "password").Return(&contract.LoginResponse{
		OTPEnabled: true, OTPVerified: true, TwoFactorToken: "tf",
	}, nil)
	s.Require().NoError(s.machine.Login(s.ctx, "admin", "password"))

	snap := s.machine.Snapshot()
	s.Equal(ScreenOTPChallenge, snap.Screen)
	s.Equal("tf", snap.PendingTwoFactorToken)
	s.False(snap.Authenticated())

	s.Run("empty code is rejected locally", func() {
		err := s.machine.SubmitOTP(s.ctx, " ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(MsgCodeRequired, s.machine.Snapshot().Err)
	})

	s.Run("wrong code keeps the challenge", func() {
		s.client.EXPECT().ValidateOTP(gomock.Any(), "000000", "tf").
			Return(nil, &dErrors.Error{Code: dErrors.CodeAPI, Status: http.StatusBadRequest})
		s.Error(s.machine.SubmitOTP(s.ctx, "000000"))
		snap := s.machine.Snapshot()
		s.Equal(ScreenOTPChallenge, snap.Screen)
		s.Equal(FallbackOTPCheck, snap.Err)
	})

	s.Run("valid code persists the token", func() {
		s.client.EXPECT().ValidateOTP(gomock.Any(), "123456", "tf").
			Return(&contract.OTPResponse{Success: true, Token: "session"}, nil)
		s.Require().NoError(s.machine.SubmitOTP(s.ctx, "123456"))
		snap := s.machine.Snapshot()
		s.Equal(ScreenHome, snap.Screen)
		s.Equal("session", snap.Token)
		s.Empty(snap.PendingTwoFactorToken)
		s.Empty(snap.Err)
		s.Equal("session", s.storedToken())
	})
}

func (s *MachineSuite) TestLoginSetup() {
	uri := "otpauth://totp/Invite%20Manager:admin?secret=ABC&issuer=Invite%20Manager"
	s.client.EXPECT().Login(gomock.Any(), "admin", "password").Return(&contract.LoginResponse{
		OTPEnabled: true, OTPAuthURL: uri, TwoFactorToken: "tf",
	}, nil)
	s.Require().NoError(s.machine.Login(s.ctx, "admin", "password"))

	snap := s.machine.Snapshot()
	s.Equal(ScreenOTPSetup, snap.Screen)
	s.Equal(uri, snap.ProvisioningURI)
	s.Equal(QRCodeURL(uri), snap.QRCodeURL)

	s.client.EXPECT().VerifyOTP(gomock.Any(), "123456", "tf").
		Return(&contract.OTPResponse{Success: true, Token: "session"}, nil)
	s.Require().NoError(s.machine.SubmitOTP(s.ctx, "123456"))

	snap = s.machine.Snapshot()
	s.Equal(ScreenHome, snap.Screen)
	s.Empty(snap.ProvisioningURI)
	s.Empty(snap.QRCodeURL)
	s.Equal("session", s.storedToken())
}

func (s *MachineSuite) TestLoginSetupFromDisabledOTP() {
	s.client.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(&contract.LoginResponse{
		OTPAuthURL: "otpauth://totp/x?secret=ABC",
	}, nil)
	s.Require().NoError(s.machine.Login(s.ctx, "admin", "password"))
	s.Equal(ScreenOTPSetup, s.machine.Snapshot().Screen)
}

func (s *MachineSuite) TestLoginUnverifiedWithoutURIGoesHome() {
	s.client.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(&contract.LoginResponse{
		OTPEnabled: true, Token: "session",
	}, nil)
	s.Require().NoError(s.machine.Login(s.ctx, "admin", "password"))
	s.Equal(ScreenHome, s.machine.Snapshot().Screen)
}

func (s *MachineSuite) TestTokenlessTerminalResponseGoesHome() {
	s.client.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(&contract.LoginResponse{}, nil)

	s.Require().NoError(s.machine.Login(s.ctx, "admin", "password"))
	snap := s.machine.Snapshot()
	s.Equal(ScreenHome, snap.Screen)
	s.Empty(snap.Err)
	s.False(snap.Authenticated())
	s.Empty(s.storedToken())

	s.Run("a rejected fetch shows the message instead of logging out", func() {
		err := s.machine.Do(s.ctx, "Failed to fetch invites", func(context.Context) error {
			return &dErrors.Error{Code: dErrors.CodeUnauthorized, Status: http.StatusUnauthorized}
		})
		s.Error(err)
		snap := s.machine.Snapshot()
		s.Equal(ScreenHome, snap.Screen)
		s.Equal("Failed to fetch invites", snap.Err)
	})
}

func (s *MachineSuite) TestCancel() {
	s.Run("without a token returns to login", func() {
		s.client.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(&contract.LoginResponse{
			OTPEnabled: true, OTPVerified: true, TwoFactorToken: "tf",
		}, nil)
		s.Require().NoError(s.machine.Login(s.ctx, "admin", "password"))
		s.Require().NoError(s.machine.Cancel())
		snap := s.machine.Snapshot()
		s.Equal(ScreenLogin, snap.Screen)
		s.Empty(snap.PendingTwoFactorToken)
	})

	s.Run("with a token returns home", func() {
		s.loginWithToken()
		s.client.EXPECT().GenerateOTP(gomock.Any()).
			Return(&contract.GenerateOTPResponse{QRCode: "otpauth://totp/x?secret=ABC"}, nil)
		s.Require().NoError(s.machine.StartOTPSetup(s.ctx))
		s.Equal(ScreenOTPSetup, s.machine.Snapshot().Screen)

		s.Require().NoError(s.machine.Cancel())
		snap := s.machine.Snapshot()
		s.Equal(ScreenHome, snap.Screen)
		s.Empty(snap.ProvisioningURI)
	})

	s.Run("not from home", func() {
		s.ErrorIs(s.machine.Cancel(), ErrInvalidTransition)
	})
}

func (s *MachineSuite) TestStartOTPSetupRequiresHome() {
	s.ErrorIs(s.machine.StartOTPSetup(s.ctx), ErrInvalidTransition)
}

func (s *MachineSuite) TestEnrolFromHomeWithoutNewToken() {
	s.loginWithToken()
	s.client.EXPECT().GenerateOTP(gomock.Any()).
		Return(&contract.GenerateOTPResponse{QRCode: "otpauth://totp/x?secret=ABC"}, nil)
	s.Require().NoError(s.machine.StartOTPSetup(s.ctx))

	s.client.EXPECT().VerifyOTP(gomock.Any(), "123456", "").Return(&contract.OTPResponse{Success: true}, nil)
	s.Require().NoError(s.machine.SubmitOTP(s.ctx, "123456"))

	snap := s.machine.Snapshot()
	s.Equal(ScreenHome, snap.Screen)
	s.Equal("session", snap.Token)
}

func (s *MachineSuite) TestDoUnauthorizedLogsOut() {
	s.loginWithToken()

	err := s.machine.Do(s.ctx, "Failed to fetch invites", func(context.Context) error {
		return &dErrors.Error{Code: dErrors.CodeUnauthorized, Status: http.StatusUnauthorized}
	})
	s.True(dErrors.IsUnauthorized(err))

	snap := s.machine.Snapshot()
	s.Equal(ScreenLogin, snap.Screen)
	s.Empty(snap.Token)
	s.Empty(snap.Err)
	s.Empty(s.storedToken())
}

func (s *MachineSuite) TestDoKeepsScreenOnFailure() {
	s.loginWithToken()
	s.Require().NoError(s.machine.ShowAdmins())

	err := s.machine.Do(s.ctx, "Failed to add admin", func(context.Context) error {
		return &dErrors.Error{Code: dErrors.CodeAPI, Message: "Admin already exists", Status: http.StatusConflict}
	})
	s.Error(err)
	snap := s.machine.Snapshot()
	s.Equal(ScreenAdmins, snap.Screen)
	s.Equal("Admin already exists", snap.Err)

	s.Run("next action clears the error", func() {
		s.Require().NoError(s.machine.Do(s.ctx, "x", func(context.Context) error { return nil }))
		s.Empty(s.machine.Snapshot().Err)
	})
}

func (s *MachineSuite) TestDoTracksLoading() {
	s.loginWithToken()
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- s.machine.Do(s.ctx, "x", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	s.True(s.machine.Snapshot().Loading)
	close(release)
	s.NoError(<-done)
	s.False(s.machine.Snapshot().Loading)
}

func (s *MachineSuite) TestLogout() {
	s.loginWithToken()
	s.machine.Fail("stale")
	s.machine.Logout(s.ctx)

	snap := s.machine.Snapshot()
	s.Equal(ScreenLogin, snap.Screen)
	s.Empty(snap.Token)
	s.Empty(snap.Err)
	s.Empty(s.storedToken())

	token, err := s.machine.Token(s.ctx)
	s.NoError(err)
	s.Empty(token)
}

func (s *MachineSuite) TestNavigation() {
	s.ErrorIs(s.machine.ShowAdmins(), ErrInvalidTransition)

	s.loginWithToken()
	s.Require().NoError(s.machine.ShowAdmins())
	s.Equal(ScreenAdmins, s.machine.Snapshot().Screen)
	s.Require().NoError(s.machine.ShowInvites())
	s.Equal(ScreenHome, s.machine.Snapshot().Screen)
}

func TestNext(t *testing.T) {
	tests := []struct {
		from Screen
		ev   Event
		want Screen
		ok   bool
	}{
		{ScreenLogin, EventChallengeIssued, ScreenOTPChallenge, true},
		{ScreenLogin, EventSetupRequired, ScreenOTPSetup, true},
		{ScreenLogin, EventAuthenticated, ScreenHome, true},
		{ScreenLogin, EventShowAdmins, 0, false},
		{ScreenHome, EventSetupRequired, ScreenOTPSetup, true},
		{ScreenAdmins, EventSetupRequired, 0, false},
		{ScreenOTPSetup, EventAbandon, ScreenLogin, true},
		{ScreenOTPChallenge, EventResume, ScreenHome, true},
		{ScreenAdmins, EventUnauthorized, ScreenLogin, true},
		{ScreenOTPSetup, EventLogout, ScreenLogin, true},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.ev.String(), func(t *testing.T) {
			got, ok := Next(tt.from, tt.ev)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestQRCodeURL(t *testing.T) {
	assert.Equal(t, "", QRCodeURL(""))
	assert.Equal(t, "data:image/png;base64,xyz", QRCodeURL("data:image/png;base64,xyz"))
	assert.Equal(t,
		"https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=otpauth%3A%2F%2Ftotp%2Fx%3Fsecret%3DABC",
		QRCodeURL("otpauth://totp/x?secret=ABC"))
}
