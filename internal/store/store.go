package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/gradebook/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose the credential and record tables as sub-repositories. The credential
// and student tables live in the same database file but share no keys.
type Store interface {
	Credentials() Credentials
	Students() Students

	// ApplyMigrations creates or upgrades the schema. Safe to call on every
	// start.
	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped store. Nested transactions are not supported.
type Tx interface {
	Credentials() Credentials
	Students() Students
}

type Credentials interface {
	// FindByUsername is an exact-match lookup. A missing user is ErrNotFound.
	FindByUsername(ctx context.Context, username string) (domain.Credential, error)

	// Insert adds a credential. ErrAlreadyExists when the username is taken;
	// existing rows are never modified.
	Insert(ctx context.Context, c domain.Credential) error

	Count(ctx context.Context) (int, error)
}

type Students interface {
	// Insert adds a student. ErrAlreadyExists when the roll is taken.
	Insert(ctx context.Context, s domain.Student) error

	// Delete removes a student by roll. ErrNotFound when nothing matched.
	Delete(ctx context.Context, roll string) error

	// List returns every student ordered by roll.
	List(ctx context.Context) ([]domain.Student, error)

	// Totals returns each student's name with the sum of the three scores.
	Totals(ctx context.Context) ([]domain.StudentTotal, error)
}
