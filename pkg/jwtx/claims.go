package jwtx

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenType discriminates what a token may be used for. It is stamped by
// the Service at mint time and is the only claim consulted when deciding
// whether a refresh token was presented where an access token is expected
// (or vice versa).
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Identity is the caller-supplied portion of a token's claims: the stable
// subject (user id) and the email it was issued for.
type Identity struct {
	Subject string
	Email   string
}

// Claims is the signed token payload. The registered claims carry sub,
// exp, iat and jti; Email and TokenType are our additions. TokenType is
// never accepted from callers, only from Mint.
type Claims struct {
	jwt.RegisteredClaims

	Email     string    `json:"email,omitempty"`
	TokenType TokenType `json:"type,omitempty"`
}

// Identity projects the caller-supplied claims back out of a decoded token.
func (c Claims) Identity() Identity {
	return Identity{Subject: c.Subject, Email: c.Email}
}
