package usecase

import (
	"context"

	"pethub/internal/domain/entity"

	"github.com/google/uuid"
)

// ConsistencyReport compares record-store role state with the claims
// channel's cached copy for one user.
type ConsistencyReport struct {
	Consistent bool
	RecordRole entity.Role
	ClaimsRole *entity.Role // nil when the channel carries no claims yet.
}

// ClaimsSyncUsecase keeps the identity provider's claims channel in step
// with the record store. The record store is authoritative; the channel is
// a cache refreshed at-least-once.
type ClaimsSyncUsecase interface {
	// Push writes the user's current (role, roleStatus) into the claims
	// channel. Idempotent; safe to repeat with unchanged state.
	Push(ctx context.Context, userID uuid.UUID) error

	// CheckConsistency reports whether the channel agrees with the record
	// store for this user.
	CheckConsistency(ctx context.Context, userID uuid.UUID) (*ConsistencyReport, error)

	// Repair re-reads record-store state and pushes it, closing any drift.
	Repair(ctx context.Context, userID uuid.UUID) error
}
