// Package store implements persistence for registrations across three
// interchangeable backends: Redis, PostgreSQL, and an in-memory sample mode.
package store

import (
	"context"
	"errors"

	"github.com/eventline/registration/internal/model"
)

// ErrNotFound is returned when no registration exists for an email.
var ErrNotFound = errors.New("registration not found")

// Store is the capability interface the registration service depends on.
// Implementations must be safe for concurrent use.
type Store interface {
	// FindByEmail returns the registration for a normalized email,
	// or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*model.Registration, error)

	// Create persists a new registration for a normalized email, assigning
	// the next ticket number in the global sequence and stamping CreatedAt.
	Create(ctx context.Context, email string) (*model.Registration, error)
}
