package usecase

import (
	"context"

	"pethub/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionInfo is the record-store view of a caller's authorization state,
// served to the UI so it can branch on registration and approval.
type SessionInfo struct {
	Registered        bool
	Role              *entity.Role
	RoleStatus        *entity.RoleStatus
	RequestedRole     *entity.Role
	HasPendingRequest bool
}

// AccountUsecase serves read-side session state and the defensive
// claims-repair refresh.
type AccountUsecase interface {
	// GetSession returns the caller's authoritative role state; when the
	// subject has no account it returns Registered=false rather than an
	// error, so the UI can route to registration.
	GetSession(ctx context.Context, subject string) (*SessionInfo, error)

	// RefreshSession repairs the caller's claims from record-store state
	// and returns the current session info. Used when a client forces a
	// re-verification after a role change.
	RefreshSession(ctx context.Context, userID uuid.UUID) (*SessionInfo, error)
}
