package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"invitedesk/internal/demo"
	dErrors "invitedesk/pkg/domain-errors"
)

type SimulatedClientSuite struct {
	suite.Suite
	backend *demo.Backend
	token   string
	client  *SimulatedClient
}

func TestSimulatedClientSuite(t *testing.T) {
	suite.Run(t, new(SimulatedClientSuite))
}

func (s *SimulatedClientSuite) SetupTest() {
	backend, err := demo.New(demo.Config{
		SigningKey: "test-signing-key",
		BcryptCost: bcrypt.MinCost,
	})
	s.Require().NoError(err)
	s.backend = backend
	s.token = ""
	s.client = NewSimulated(SimulatedConfig{
		Backend: backend,
		Tokens:  TokenSourceFunc(func(context.Context) (string, error) { return s.token, nil }),
	})
}

func (s *SimulatedClientSuite) login() {
	resp, err := s.client.Login(context.Background(), "admin", "password")
	s.Require().NoError(err)
	s.Require().NotEmpty(resp.Token)
	s.token = resp.Token
}

func (s *SimulatedClientSuite) TestLogin() {
	s.Run("valid credentials yield a token", func() {
		s.login()
	})

	s.Run("bad credentials are unauthorized", func() {
		_, err := s.client.Login(context.Background(), "admin", "nope")
		s.True(dErrors.IsUnauthorized(err))
		s.Equal(http.StatusUnauthorized, dErrors.StatusOf(err))
		s.Equal("Invalid username or password", dErrors.Describe(err, "Login failed"))
	})
}

func (s *SimulatedClientSuite) TestRequiresToken() {
	_, err := s.client.ListInvites(context.Background())
	s.True(dErrors.IsUnauthorized(err))
}

func (s *SimulatedClientSuite) TestInviteLifecycle() {
	s.login()
	before, err := s.client.ListInvites(context.Background())
	s.Require().NoError(err)

	s.Require().NoError(s.client.CreateInvites(context.Background(), 3))
	after, err := s.client.ListInvites(context.Background())
	s.Require().NoError(err)
	s.Len(after.Codes, len(before.Codes)+3)

	created := after.Codes[0]
	s.Equal(1, created.Available)
	s.Require().NoError(s.client.DisableInvite(context.Background(), created.Code))

	final, err := s.client.ListInvites(context.Background())
	s.Require().NoError(err)
	s.True(final.Codes[0].Disabled)
}

func (s *SimulatedClientSuite) TestBackendErrorsBecomeAPIErrors() {
	s.login()

	s.Run("bad request", func() {
		err := s.client.CreateInvites(context.Background(), 0)
		s.True(dErrors.HasCode(err, dErrors.CodeAPI))
		s.Equal(http.StatusBadRequest, dErrors.StatusOf(err))
	})

	s.Run("not found", func() {
		err := s.client.DisableInvite(context.Background(), "missing")
		s.True(dErrors.HasCode(err, dErrors.CodeAPI))
		s.Equal(http.StatusNotFound, dErrors.StatusOf(err))
		s.Equal("Invite code not found", dErrors.Describe(err, "Failed to disable invite"))
	})

	s.Run("conflict", func() {
		_, err := s.client.AddAdmin(context.Background(), "admin")
		s.Equal(http.StatusConflict, dErrors.StatusOf(err))
		s.Equal("Admin already exists", dErrors.Describe(err, "Failed to add admin"))
	})
}

func (s *SimulatedClientSuite) TestAdmins() {
	s.login()
	added, err := s.client.AddAdmin(context.Background(), "carol")
	s.Require().NoError(err)
	s.NotEmpty(added.Password)

	list, err := s.client.ListAdmins(context.Background())
	s.Require().NoError(err)
	var names []string
	for _, a := range list.Admins {
		names = append(names, a.Username)
	}
	s.Contains(names, "carol")

	s.Require().NoError(s.client.RemoveAdmin(context.Background(), "carol"))
	err = s.client.RemoveAdmin(context.Background(), "admin")
	s.Equal("You cannot remove yourself", dErrors.Describe(err, "Failed to remove admin"))
}

func (s *SimulatedClientSuite) TestResolveIdentifier() {
	doc, err := s.client.ResolveIdentifier(context.Background(), "did:plc:ewvi7nxzyoun6zhxrhs64oiz")
	s.Require().NoError(err)
	s.Equal("did:plc:ewvi7nxzyoun6zhxrhs64oiz", doc.ID)
	s.NotEmpty(doc.AlsoKnownAs)
}

func (s *SimulatedClientSuite) TestLatencyHonoursCancellation() {
	slow := NewSimulated(SimulatedConfig{Backend: s.backend, Latency: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := slow.Login(ctx, "admin", "password")
	s.True(dErrors.HasCode(err, dErrors.CodeNetwork))
	s.Equal("Login failed", dErrors.Describe(err, "Login failed"))
}
