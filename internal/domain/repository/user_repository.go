// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"pethub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByIdentitySubject retrieves a single user by the identity
	// provider's stable subject id.
	FindByIdentitySubject(ctx context.Context, subject string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// UpdateRoleState writes role, roleStatus and requestedRole for one
	// user. It is the only mutation the subsystem performs on users.
	UpdateRoleState(ctx context.Context, user *entity.User) error

	// ListAll returns every registered user, newest first.
	ListAll(ctx context.Context) ([]*entity.User, error)
}
