package service

import (
	"context"
	"errors"

	"github.com/keylinehq/keyline/internal/auth/domain"
	"github.com/keylinehq/keyline/internal/auth/store"
	"github.com/keylinehq/keyline/pkg/cryptox"
	"github.com/keylinehq/keyline/pkg/jwtx"
	"github.com/keylinehq/keyline/pkg/slogx"
)

// AuthService composes the token service, the credential hasher and the
// user directory. It owns the cross-cutting invariants: inactive accounts
// cannot authenticate or refresh, and every bearer token presented to any
// transport funnels through Resolve.
//
// All fields are immutable after construction; the service holds no
// per-request state and is safe for concurrent use.
type AuthService struct {
	Users  *UserService
	Tokens *jwtx.Service
}

// Register creates a new directory record. Fails with
// ErrUserAlreadyExists on an email or username collision; no token is
// minted and no record is created on failure.
func (s *AuthService) Register(ctx context.Context, in CreateUserInput) (domain.User, error) {
	return s.Users.Create(ctx, in)
}

// Login verifies the password for the account registered under email and
// mints an access+refresh pair. Unknown email, wrong password and
// inactive account all fail with ErrInvalidCredentials so callers cannot
// distinguish which it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login failed", "email", email, "reason", "unknown_email")
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.HashedPassword); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login failed", "email", email, "reason", "bad_password")
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if !user.IsActive {
		log.Warn("login failed", "email", email, "reason", "inactive")
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	access, refresh, err := s.Tokens.MintPair(identity(user))
	if err != nil {
		return domain.TokenPair{}, err
	}

	log.Info("user authenticated", "user_id", user.ID, "email", user.Email)
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh token for a fresh access token. The refresh
// token itself is never rotated or re-issued. Account state is re-checked
// against the directory on every call, so deactivating an account cuts
// off refreshing even while its tokens are unexpired.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	user, err := s.resolveToken(ctx, refreshToken, jwtx.TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	access, err := s.Tokens.Mint(identity(user), jwtx.TokenTypeAccess)
	if err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Info("access token refreshed", "user_id", user.ID)
	return access, nil
}

// Resolve answers "who owns this token" for an access token. This is the
// single validation path both the REST middleware and the RPC adapter
// use; the token-type and account-active invariants are enforced here and
// nowhere else.
func (s *AuthService) Resolve(ctx context.Context, accessToken string) (domain.User, error) {
	return s.resolveToken(ctx, accessToken, jwtx.TokenTypeAccess)
}

func (s *AuthService) resolveToken(ctx context.Context, raw string, want jwtx.TokenType) (domain.User, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.Tokens.Decode(raw, want)
	if err != nil {
		mapped := mapTokenError(err)
		log.Warn("token rejected", "want", string(want), "reason", mapped.Error())
		return domain.User{}, mapped
	}

	if claims.Subject == "" {
		log.Warn("token rejected", "want", string(want), "reason", "missing subject")
		return domain.User{}, ErrInvalidToken
	}

	user, err := s.Users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("token subject not in directory", "sub", claims.Subject)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if !user.IsActive {
		log.Warn("token for inactive account", "user_id", user.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func identity(u domain.User) jwtx.Identity {
	return jwtx.Identity{Subject: u.ID, Email: u.Email}
}
