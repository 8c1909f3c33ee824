package utils // package utils provides helpers shared by handlers and binaries

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp.  Tokens are issued by the identity provider; this service
// only needs to mint them for operations tooling and tests.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the subset of token claims the reservation service reads.
type Claims struct {
	Subject string // user identifier (sub)
	Email   string // actor recorded in reservation history
	Role    string // one of the roles in middleware.Role*
}

// Actor returns the identity written to history entries: the e-mail when
// present, otherwise the subject.
func (c Claims) Actor() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Subject
}

// NewAccessToken builds and signs an HS256 JWT carrying sub, email, role,
// exp and iat claims.
func NewAccessToken(secret string, c Claims, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   c.Subject,
		"email": c.Email,
		"role":  c.Role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies an HS256 token and extracts its claims.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC signatures.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, err
	}
	if !tok.Valid {
		return Claims{}, errors.New("invalid token")
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}
	var c Claims
	c.Subject, _ = mc["sub"].(string)
	c.Email, _ = mc["email"].(string)
	c.Role, _ = mc["role"].(string)
	return c, nil
}
