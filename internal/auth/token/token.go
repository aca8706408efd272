// Package token issues and verifies the stateless bearer tokens that back
// API sessions. Logout is client-side cookie clearing only; an issued token
// stays valid until its natural expiry.
package token

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/taxdesk/internal/config"
	"go.uber.org/fx"
)

var (
	ErrInvalid = errors.New("token_invalid")
	ErrExpired = errors.New("token_expired")
)

const issuer = "taxdesk"

type claims struct {
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens binding a subject account id to an
// expiry. No server-side session state is kept.
type Service struct {
	secret []byte
	ttl    time.Duration
}

var Module = fx.Module("auth.token",
	fx.Provide(New),
)

func New(cfg config.Config) *Service {
	return &Service{
		secret: []byte(cfg.AuthJWTSecret),
		ttl:    cfg.AuthTokenTTL,
	}
}

// Issue produces a signed token whose subject is the account id.
func (s *Service) Issue(accountID snowflake.ID) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return t.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the subject account id.
func (s *Service) Verify(raw string) (snowflake.ID, error) {
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, ErrInvalid
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return 0, ErrInvalid
	}

	subject, err := snowflake.ParseString(c.Subject)
	if err != nil || subject <= 0 {
		return 0, ErrInvalid
	}
	return subject, nil
}

// TTL exposes the configured token lifetime for cookie expiry.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
