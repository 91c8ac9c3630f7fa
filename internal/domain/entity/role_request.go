package entity

import (
	"time"

	"github.com/google/uuid"
)

// RoleRequest is the append-mostly audit record of one upgrade attempt.
// It is created pending and decided exactly once; it is never re-opened
// and never deleted.
type RoleRequest struct {
	ID            uuid.UUID
	UserID        uuid.UUID     // Owning user.
	RequestedRole Role          // Target role; vet or admin.
	Status        RequestStatus // pending until an admin decides.
	ReviewedBy    *uuid.UUID    // Admin user id; nil while pending.
	ReviewedAt    *time.Time    // Decision time; nil while pending.
	Reason        string        // License evidence on creation, rejection rationale on rejection.
	CreatedAt     time.Time
}

// IsPending reports whether the request still awaits a decision.
func (r *RoleRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
