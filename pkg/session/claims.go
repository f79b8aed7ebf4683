package session

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of token claims the client can display without
// holding the server's signing key.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry in the past.
// Tokens without an exp claim are never considered expired here.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// InspectToken parses token claims WITHOUT verifying the signature.
// Verification is the server's job; this is for local display only
// (whoami, auth status).
func InspectToken(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	var out Claims
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
