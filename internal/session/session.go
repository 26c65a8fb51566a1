// Package session issues and verifies signed session cookies.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the session cookie.
const CookieName = "ticket_session"

// TTL is the fixed lifetime of an issued session.
const TTL = 7 * 24 * time.Hour

// cookiePath scopes the cookie to the API prefix.
const cookiePath = "/api"

// Issuer wraps a registration id into a signed HTTP-only cookie.
type Issuer struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// NewIssuer constructs an Issuer. secure controls the cookie's Secure
// attribute and should be true in production.
func NewIssuer(secret string, secure bool) *Issuer {
	return &Issuer{secret: []byte(secret), secure: secure, now: time.Now}
}

// Cookie returns the Set-Cookie directive carrying a signed token whose
// subject is the registration id, expiring TTL from now.
func (i *Issuer) Cookie(id string) (*http.Cookie, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     cookiePath,
		Expires:  now.Add(TTL),
		MaxAge:   int(TTL / time.Second),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteStrictMode,
	}, nil
}

// Subject verifies a session token and returns the registration id it was
// issued for.
func (i *Issuer) Subject(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("session token has no subject")
	}
	return claims.Subject, nil
}
