// Package store is the PostgreSQL data store for tenants, rooms and
// electrical devices. Failures are reported through the sentinel errors
// below so callers can tell a missing record from a conflict.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a tenant, room or device does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned for duplicate tenant names or room numbers
	ErrConflict = errors.New("record already exists")
	// ErrInvalidReference is returned when a row points at a missing parent
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrNothingToCopy is returned when a room copy finds no source devices
	ErrNothingToCopy = errors.New("source room has no devices to copy")
)

type claimsKey struct{}

// ContextWithClaims attaches JWT claims (as JSON) for row-level security
func ContextWithClaims(ctx context.Context, claimsJSON string) context.Context {
	return context.WithValue(ctx, claimsKey{}, claimsJSON)
}

// ClaimsFromContext returns the claims set by ContextWithClaims
func ClaimsFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(claimsKey{}).(string)
	return claims, ok && claims != ""
}

// Store implements tenant, room and device persistence with gorm
type Store struct {
	db *gorm.DB
}

// New creates a store backed by db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// run executes fn against the database. When the context carries claims,
// fn runs in a transaction where Postgres sees them as request.jwt.claims.
func (s *Store) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if _, ok := ClaimsFromContext(ctx); !ok {
		return fn(s.db.WithContext(ctx))
	}
	return s.transaction(ctx, fn)
}

// transaction always runs fn in a single transaction
func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if claims, ok := ClaimsFromContext(ctx); ok {
			if err := tx.Exec("SELECT set_config('request.jwt.claims', ?, true)", claims).Error; err != nil {
				return fmt.Errorf("failed to set row-level security claims: %w", err)
			}
		}
		return fn(tx)
	})
}

// translate maps gorm errors onto the store's sentinel errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidReference), errors.Is(err, ErrNothingToCopy):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}

// affected turns a zero-row write into ErrNotFound
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
