package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite covers the error taxonomy shared by the API client, the
// controllers and the demo backend.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeAPI, Message: "Invite code not found", Status: 404}
		s.Equal("Invite code not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNetwork}
		s.Equal("network_error", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("dial tcp: connection refused")
		err := &Error{Code: CodeNetwork, Err: inner}
		s.Equal(inner, err.Unwrap())
		s.Equal(inner, errors.Unwrap(err))
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeValidation, Message: "Please enter a 2FA code."}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeUnauthorized, Message: "Invalid credentials"}
		err2 := &Error{Code: CodeUnauthorized, Message: "Token expired"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		s.False((&Error{Code: CodeAPI}).Is(&Error{Code: CodeNetwork}))
	})

	s.Run("does not match non-domain errors", func() {
		s.False((&Error{Code: CodeAPI}).Is(errors.New("api_error")))
	})

	s.Run("works with errors.Is through fmt wrapping", func() {
		inner := New(CodeUnauthorized, "Token expired")
		wrapped := fmt.Errorf("list invites: %w", inner)
		s.True(errors.Is(wrapped, &Error{Code: CodeUnauthorized}))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves original code and status when wrapping domain error", func() {
		original := &Error{Code: CodeAPI, Message: "boom", Status: 500}
		wrapped := Wrap(original, CodeInternal, "Failed to fetch invites")

		var domainErr *Error
		s.Require().True(errors.As(wrapped, &domainErr))
		s.Equal(CodeAPI, domainErr.Code)
		s.Equal(500, domainErr.Status)
		s.Equal("Failed to fetch invites", domainErr.Message)
	})

	s.Run("uses provided code when wrapping non-domain error", func() {
		original := errors.New("unexpected EOF")
		wrapped := Wrap(original, CodeNetwork, "")

		s.True(HasCode(wrapped, CodeNetwork))
		s.True(errors.Is(wrapped, original))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.Run("returns true for matching code", func() {
		s.True(HasCode(New(CodeConflict, "exists"), CodeConflict))
	})

	s.Run("returns false for non-matching code", func() {
		s.False(HasCode(New(CodeConflict, "exists"), CodeNotFound))
	})

	s.Run("returns false for non-domain and nil errors", func() {
		s.False(HasCode(errors.New("regular error"), CodeNotFound))
		s.False(HasCode(nil, CodeNotFound))
	})

	s.Run("IsUnauthorized finds code through chain", func() {
		err := fmt.Errorf("refresh: %w", New(CodeUnauthorized, ""))
		s.True(IsUnauthorized(err))
		s.False(IsUnauthorized(New(CodeAPI, "")))
	})
}

func (s *DomainErrorsSuite) TestDescribe() {
	s.Run("nil error yields empty message", func() {
		s.Equal("", Describe(nil, "Failed to fetch invites"))
	})

	s.Run("server message wins over fallback", func() {
		err := &Error{Code: CodeUnauthorized, Message: "Invalid credentials", Status: 401}
		s.Equal("Invalid credentials", Describe(err, "Login failed"))
	})

	s.Run("fallback used when server sent no message", func() {
		err := &Error{Code: CodeAPI, Status: 500}
		s.Equal("Failed to create invites", Describe(err, "Failed to create invites"))
	})

	s.Run("generic message when no fallback", func() {
		s.Equal("An error occurred", Describe(&Error{Code: CodeNetwork}, ""))
	})

	s.Run("non-domain errors are unexpected failures", func() {
		s.Equal("An error occurred", Describe(errors.New("nil map"), "Login failed"))
	})

	s.Run("StatusOf reads the outermost domain status", func() {
		s.Equal(409, StatusOf(fmt.Errorf("add: %w", &Error{Code: CodeAPI, Status: 409})))
		s.Equal(0, StatusOf(errors.New("plain")))
	})
}
