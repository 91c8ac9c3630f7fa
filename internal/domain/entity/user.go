package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity of the authorization subsystem. It binds the
// identity provider's stable subject id to the platform's authoritative
// role state. Role, RoleStatus and RequestedRole mutate only through the
// role lifecycle operations; no other code path may write them.
type User struct {
	ID              uuid.UUID  // Primary key for the user record.
	IdentitySubject string     // Stable subject id from the identity provider; unique.
	Email           string     // Contact email reported by the identity provider.
	Role            Role       // Current privilege tier; defaults to owner.
	RoleStatus      RoleStatus // Approval state of the current role; defaults to approved.
	RequestedRole   *Role      // Outstanding upgrade target; nil when none is pending.
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser builds a freshly registered user in the initial lifecycle state:
// (owner, approved) with no outstanding request.
func NewUser(identitySubject, email string) *User {
	return &User{
		IdentitySubject: identitySubject,
		Email:           email,
		Role:            RoleOwner,
		RoleStatus:      RoleStatusApproved,
	}
}

// HasApprovedRole reports whether the user currently holds the given role
// in approved state.
func (u *User) HasApprovedRole(role Role) bool {
	return u.Role == role && u.RoleStatus == RoleStatusApproved
}
