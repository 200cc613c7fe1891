package store

import (
	"context"
	"errors"

	"github.com/keylinehq/keyline/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. Sub-repositories keep concerns tidy and make it
// harder to accidentally nest transactions.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and
	// rolling back on error. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the user directory. Absence is reported as ErrNotFound, never
// as a nil record; uniqueness violations surface as ErrAlreadyExists.
type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername is used for the registration uniqueness check.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id and timestamps are provided by
	// the app). The UNIQUE constraints on email and username are the
	// final arbiter when two registrations race.
	CreateUser(ctx context.Context, u domain.User) error

	// SetUserActive flips is_active and bumps updated_at.
	SetUserActive(ctx context.Context, userID string, active bool) error

	// UpdatePasswordHash sets a new opaque hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// CountUsers returns the number of user records.
	CountUsers(ctx context.Context) (int64, error)
}
