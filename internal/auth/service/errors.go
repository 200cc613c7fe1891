package service

import (
	"errors"
	"fmt"

	"github.com/keylinehq/keyline/pkg/jwtx"
)

// The closed failure set transports switch on. Every request-level
// failure out of this package is one of these four sentinels or an
// *InvalidTokenTypeError; nothing here is fatal to the process.
var (
	// ErrUserAlreadyExists: email or username collision on registration.
	ErrUserAlreadyExists = errors.New("auth: user already exists")

	// ErrInvalidCredentials covers unknown email, wrong password and
	// inactive account. The three causes are deliberately
	// indistinguishable to callers.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken: malformed, forged, or missing the subject claim.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenExpired: structurally valid token past its expiry. Distinct
	// so clients know to refresh rather than re-authenticate.
	ErrTokenExpired = errors.New("auth: token expired")
)

// InvalidTokenTypeError reports a well-formed, unexpired token presented
// to an operation requiring the other token type.
type InvalidTokenTypeError struct {
	Expected jwtx.TokenType
	Actual   jwtx.TokenType
}

func (e *InvalidTokenTypeError) Error() string {
	return fmt.Sprintf("auth: expected %s token, got %s", e.Expected, e.Actual)
}

// mapTokenError folds jwtx decode failures into the closed taxonomy so
// transports never depend on jwtx error values.
func mapTokenError(err error) error {
	var mismatch *jwtx.TypeMismatchError
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return ErrTokenExpired
	case errors.As(err, &mismatch):
		return &InvalidTokenTypeError{Expected: mismatch.Expected, Actual: mismatch.Actual}
	default:
		return ErrInvalidToken
	}
}
