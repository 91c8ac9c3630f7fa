// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "slices"

// Role represents the privilege tier a user holds in the system.
type Role string

const (
	// RoleOwner indicates a regular pet owner, the baseline role.
	RoleOwner Role = "owner"
	// RoleVet indicates a verified veterinary professional.
	RoleVet Role = "vet"
	// RoleAdmin indicates a platform administrator.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleVet, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsUpgradable reports whether the role can be the target of an upgrade
// request. Only vet and admin are requestable; owner is the default.
func (r Role) IsUpgradable() bool {
	return r == RoleVet || r == RoleAdmin
}

// ParseRole converts a raw string into a Role, rejecting unknown values
// at the boundary.
func ParseRole(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}

// Roles is a slice of Role used as an allow-set in authorization checks.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for responses and logging.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RoleStatus represents the approval state of a user's role.
type RoleStatus string

const (
	// RoleStatusApproved indicates the user's role is active.
	RoleStatusApproved RoleStatus = "approved"
	// RoleStatusPending indicates the user's role is awaiting review.
	RoleStatusPending RoleStatus = "pending"
	// RoleStatusRejected indicates the user's last review was declined.
	RoleStatusRejected RoleStatus = "rejected"
)

// String returns the string representation of the RoleStatus.
func (s RoleStatus) String() string {
	return string(s)
}

// IsValid checks if the RoleStatus is a valid value.
func (s RoleStatus) IsValid() bool {
	switch s {
	case RoleStatusApproved, RoleStatusPending, RoleStatusRejected:
		return true
	default:
		return false
	}
}

// ParseRoleStatus converts a raw string into a RoleStatus.
func ParseRoleStatus(s string) (RoleStatus, bool) {
	status := RoleStatus(s)

	return status, status.IsValid()
}

// RequestStatus represents the lifecycle state of a role upgrade request.
type RequestStatus string

const (
	// RequestStatusPending indicates the request awaits an admin decision.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusApproved indicates an admin approved the request.
	RequestStatusApproved RequestStatus = "approved"
	// RequestStatusRejected indicates an admin rejected the request.
	RequestStatusRejected RequestStatus = "rejected"
)

// String returns the string representation of the RequestStatus.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid checks if the RequestStatus is a valid value.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	default:
		return false
	}
}
