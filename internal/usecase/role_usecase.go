// Package usecase defines the application's business operations and their
// input/output DTOs. Implementations live in the impl subpackage.
package usecase

import (
	"context"
	"time"

	"pethub/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterInput carries a first registration after successful credential
// verification. RequestedRole is optional; when present it opens an
// upgrade request alongside the baseline owner account.
type RegisterInput struct {
	Subject        string
	Email          string
	RequestedRole  string `json:"requestedRole"`
	LicenseNumber  string `json:"licenseNumber"`
	LicenseCountry string `json:"licenseCountry"`
}

// RequestUpgradeInput carries a role upgrade request from a registered,
// approved user.
type RequestUpgradeInput struct {
	UserID         uuid.UUID
	RequestedRole  string `json:"requestedRole" validate:"required"`
	LicenseNumber  string `json:"licenseNumber"`
	LicenseCountry string `json:"licenseCountry"`
}

// DecideInput identifies a pending request and the admin deciding it.
type DecideInput struct {
	AdminID   uuid.UUID
	RequestID uuid.UUID
	Reason    string // Rejection rationale; unused on approval.
}

// PendingRoleRequest pairs an open request with its requester's identity
// for the admin review queue.
type PendingRoleRequest struct {
	Request        *entity.RoleRequest
	RequesterEmail string
	RequesterRole  entity.Role
	CreatedAt      time.Time
}

// RoleUsecase is the role lifecycle manager. Its four mutating operations
// are the only writers of user role state and role request status in the
// whole system.
type RoleUsecase interface {
	// Register creates a user in the initial (owner, approved) state,
	// optionally opening an upgrade request. Fails with AlreadyRegistered
	// when the identity subject already has an account.
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)

	// RequestUpgrade opens a pending role request for the user.
	RequestUpgrade(ctx context.Context, input *RequestUpgradeInput) (*entity.RoleRequest, error)

	// Approve grants the requested role, records the decision, upserts the
	// vet profile for vet approvals, and pushes claims best-effort.
	Approve(ctx context.Context, input *DecideInput) (*entity.User, error)

	// Reject records the decision and clears the user's requested role
	// without touching their current role or status.
	Reject(ctx context.Context, input *DecideInput) (*entity.RoleRequest, error)

	// ListPending returns all open requests with requester identity.
	ListPending(ctx context.Context) ([]*PendingRoleRequest, error)

	// ListHistory returns one user's requests, newest first.
	ListHistory(ctx context.Context, userID uuid.UUID) ([]*entity.RoleRequest, error)

	// ListUsers returns all registered users.
	ListUsers(ctx context.Context) ([]*entity.User, error)
}
