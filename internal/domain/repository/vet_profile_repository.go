package repository

import (
	"context"
	"errors"

	"pethub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrVetProfileNotFound is returned when no vet profile exists for a user.
var ErrVetProfileNotFound = errors.New("vet profile not found")

// VetProfileRepository defines persistence operations for vet profiles.
type VetProfileRepository interface {
	// FindByUserID retrieves the profile owned by the given user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.VetProfile, error)

	// Upsert creates the user's profile or overwrites its license fields.
	// Approval may run more than once across requests for the same user;
	// the profile row stays unique per user.
	Upsert(ctx context.Context, profile *entity.VetProfile) error
}
