package repository

import (
	"context"
	"errors"
	"time"

	"pethub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRoleRequestNotFound is returned when a role request does not exist.
var ErrRoleRequestNotFound = errors.New("role request not found")

// ErrRoleRequestAlreadyDecided is returned by Decide when the request was
// no longer pending, i.e. the conditional update matched zero rows.
var ErrRoleRequestAlreadyDecided = errors.New("role request already decided")

// RoleRequestRepository defines persistence operations for the role
// request audit trail.
type RoleRequestRepository interface {
	// FindByID retrieves a single role request by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RoleRequest, error)

	// FindPendingByUserID returns the user's pending request, or
	// ErrRoleRequestNotFound when none is outstanding.
	FindPendingByUserID(ctx context.Context, userID uuid.UUID) (*entity.RoleRequest, error)

	// ListByUserID returns all of a user's requests, newest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RoleRequest, error)

	// ListPending returns all pending requests, oldest first.
	ListPending(ctx context.Context) ([]*entity.RoleRequest, error)

	// Create persists a new pending role request.
	Create(ctx context.Context, request *entity.RoleRequest) error

	// Decide transitions the request from pending to the given status as a
	// single conditional update, recording reviewer, decision time and
	// reason. Returns ErrRoleRequestAlreadyDecided when the request was not
	// pending anymore, so concurrent decisions cannot double-process it.
	Decide(ctx context.Context, id uuid.UUID, status entity.RequestStatus, reviewedBy uuid.UUID, reviewedAt time.Time, reason string) error
}
