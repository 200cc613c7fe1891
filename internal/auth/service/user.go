package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/keylinehq/keyline/internal/auth/domain"
	"github.com/keylinehq/keyline/internal/auth/store"
	"github.com/keylinehq/keyline/pkg/cryptox"
	"github.com/keylinehq/keyline/pkg/idx"
	"github.com/keylinehq/keyline/pkg/slogx"
)

// UserService owns directory operations: lookups and the uniqueness-
// checked create. It never mints tokens.
type UserService struct {
	Store store.Store
}

// CreateUserInput carries the registration fields. Password is plaintext
// here and only ever leaves this layer as an opaque hash.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
}

// Create registers a new user. The password is hashed before the
// transaction opens so the slow bcrypt call never holds a write lock.
// Uniqueness is double-checked: an explicit lookup for a friendly error,
// and the UNIQUE constraint as the arbiter when two registrations race.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (domain.User, error) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:             idx.New().String(),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Username:       strings.TrimSpace(in.Username),
		Email:          normalizeEmail(in.Email),
		HashedPassword: hash,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, u.Email); err == nil {
			log.Warn("registration with existing email", "email", u.Email)
			return ErrUserAlreadyExists
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByUsername(ctx, u.Username); err == nil {
			log.Warn("registration with existing username", "username", u.Username)
			return ErrUserAlreadyExists
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUserAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// SetActive flips the account's active flag. Inactive accounts can no
// longer authenticate, refresh, or resolve tokens.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) error {
	return s.Store.Users().SetUserActive(ctx, userID, active)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
