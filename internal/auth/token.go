// Package auth issues and verifies the HS256 access tokens that guard
// the HTTP surface.
package auth

import (
	"time"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTypeAccess = "access"

type claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(userID string) (Token, error) {
	now := time.Now()
	expires := now.Add(i.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return Token{}, apperr.Internal("signing token", err)
	}

	return Token{Value: signed, ExpiresAt: expires}, nil
}

// Verify parses a signed token and returns the subject user id. Any
// failure (signature, expiry, wrong type) is reported as unauthorized.
func (i *Issuer) Verify(value string) (string, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(value, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", apperr.Unauthorized("please authenticate")
	}
	if c.Type != tokenTypeAccess || c.Subject == "" {
		return "", apperr.Unauthorized("please authenticate")
	}
	return c.Subject, nil
}
