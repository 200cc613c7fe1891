// Package jwtx mints and decodes the typed JWTs this service issues.
//
// Tokens are HMAC-signed (HS256/HS384/HS512) with a single shared secret.
// Every minted token carries sub, email, exp, iat, a fresh random jti and
// a type claim ("access" or "refresh"). The signature covers the type
// claim, so repurposing a stolen token requires forging the signature.
package jwtx

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the minimum accepted secret size in bytes.
const MinSecretLength = 32

// Default lifetimes, used when Config leaves them zero.
const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var allowedAlgorithms = []string{"HS256", "HS384", "HS512"}

// Config is the immutable token configuration, loaded once at startup.
type Config struct {
	Secret     []byte
	Algorithm  string // HS256, HS384 or HS512
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Service mints and decodes tokens. It is stateless beyond its immutable
// configuration and safe for concurrent use.
type Service struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New validates cfg and returns a Service.
func New(cfg Config) (*Service, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: secret must be at least %d bytes", ErrBadConfig, MinSecretLength)
	}
	if !slices.Contains(allowedAlgorithms, cfg.Algorithm) {
		return nil, fmt.Errorf("%w: algorithm must be one of %v", ErrBadConfig, allowedAlgorithms)
	}

	accessTTL := cfg.AccessTTL
	if accessTTL == 0 {
		accessTTL = DefaultAccessTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL == 0 {
		refreshTTL = DefaultRefreshTTL
	}
	if accessTTL < 0 || refreshTTL < 0 {
		return nil, fmt.Errorf("%w: lifetimes must be positive", ErrBadConfig)
	}

	return &Service{
		secret:     cfg.Secret,
		method:     jwt.GetSigningMethod(cfg.Algorithm),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Mint signs a token of the given type using the type's configured
// lifetime.
func (s *Service) Mint(id Identity, typ TokenType) (string, error) {
	return s.MintWithTTL(id, typ, s.ttlFor(typ))
}

// MintWithTTL signs a token with an explicit lifetime override. A zero or
// negative ttl produces an already-expired token, which tests use to
// exercise expiry handling without sleeping.
func (s *Service) MintWithTTL(id Identity, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email:     id.Email,
		TokenType: typ,
	}

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// MintPair mints an access and a refresh token for the same identity,
// each with its own configured lifetime. The two tokens are always
// byte-distinct: type and jti differ even when minted in the same instant.
func (s *Service) MintPair(id Identity) (access, refresh string, err error) {
	access, err = s.Mint(id, TokenTypeAccess)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.Mint(id, TokenTypeRefresh)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Decode verifies signature, algorithm and expiry, then — when want is
// non-empty — checks the token's type claim. Failure modes are distinct:
// ErrExpired, *TypeMismatchError, and ErrMalformed for everything else.
func (s *Service) Decode(raw string, want TokenType) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if want != "" && claims.TokenType != want {
		return Claims{}, &TypeMismatchError{Expected: want, Actual: claims.TokenType}
	}

	return claims, nil
}

func (s *Service) ttlFor(typ TokenType) time.Duration {
	if typ == TokenTypeRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}
