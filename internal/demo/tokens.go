package demo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "invitedesk/pkg/domain-errors"
	"invitedesk/pkg/platform/middleware/requesttime"
)

const (
	kindSession   = "session"
	kindChallenge = "2fa"
	jwtIssuer     = "invitedesk-demo"
)

type tokenClaims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// tokenIssuer signs session and two-factor challenge tokens.
type tokenIssuer struct {
	key          []byte
	sessionTTL   time.Duration
	challengeTTL time.Duration

	mu       sync.Mutex
	sessions map[string]time.Time // jti -> expiry
}

func newTokenIssuer(key string, sessionTTL, challengeTTL time.Duration) *tokenIssuer {
	return &tokenIssuer{
		key:          []byte(key),
		sessionTTL:   sessionTTL,
		challengeTTL: challengeTTL,
		sessions:     make(map[string]time.Time),
	}
}

func (t *tokenIssuer) issue(ctx context.Context, kind, username string) (string, error) {
	now := requesttime.Now(ctx)
	ttl := t.sessionTTL
	if kind == kindChallenge {
		ttl = t.challengeTTL
	}
	jti := uuid.NewString()
	expiresAt := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
	})
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	if kind == kindSession {
		t.mu.Lock()
		t.sessions[jti] = expiresAt
		t.mu.Unlock()
	}
	return signed, nil
}

// parse validates raw and returns its subject. Any failure is unauthorized.
func (t *tokenIssuer) parse(ctx context.Context, raw, kind string) (string, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithTimeFunc(func() time.Time { return requesttime.Now(ctx) }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "Token expired")
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "Invalid token")
	}
	if !parsed.Valid || claims.Kind != kind || claims.Subject == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "Invalid token")
	}
	return claims.Subject, nil
}

// activeSessions prunes expired sessions and returns how many remain.
func (t *tokenIssuer) activeSessions(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for jti, exp := range t.sessions {
		if !exp.After(now) {
			delete(t.sessions, jti)
		}
	}
	return len(t.sessions)
}
