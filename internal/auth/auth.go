// Package auth resolves the acting principal for CLI invocations. The
// lockbox core only compares principals; proving who is calling is this
// package's job. Identity is carried either as a plain --as principal
// (trusted local mode) or as an HS256 bearer token whose subject claim
// names the principal.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// Token errors.
var (
	ErrEmptySecret  = errors.New("signing secret must not be empty")
	ErrInvalidToken = errors.New("invalid identity token")
	ErrNoSubject    = errors.New("token has no subject")
)

// Authenticator mints and verifies identity tokens with a shared HS256
// secret.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an Authenticator for the given secret.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// Mint issues a token identifying principal, valid for ttl.
func (a *Authenticator) Mint(principal types.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(principal),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns the principal
// named by the subject claim. Any parse or signature failure maps to
// types.ErrUnauthorized so callers need only one check.
func (a *Authenticator) Verify(tokenString string) (types.Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return a.secret, nil
		},
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, types.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("%w: %w", ErrNoSubject, types.ErrUnauthorized)
	}
	return types.Principal(claims.Subject), nil
}
