package jwtx

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed covers unparseable, unsigned, forged, or otherwise
	// structurally broken tokens.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrExpired is a structurally valid token whose exp has passed.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrBadConfig reports an unusable Service configuration.
	ErrBadConfig = errors.New("jwtx: bad config")
)

// TypeMismatchError reports a valid, unexpired token presented for the
// wrong purpose (e.g. a refresh token where an access token is expected).
type TypeMismatchError struct {
	Expected TokenType
	Actual   TokenType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("jwtx: expected %s token, got %s", e.Expected, e.Actual)
}
