// Package service defines contracts for external collaborators the
// application layer depends on.
package service

import (
	"context"

	"pethub/internal/domain/entity"
)

// VerifiedIdentity is the result of a successful credential verification.
// Role and RoleStatus come from the provider's claims side-channel and are
// advisory only; authorization decisions always re-read the record store.
type VerifiedIdentity struct {
	Subject    string
	Email      string
	Role       *entity.Role
	RoleStatus *entity.RoleStatus
}

// RoleClaims is the small payload the claims channel stores per subject.
type RoleClaims struct {
	Role       entity.Role
	RoleStatus entity.RoleStatus
}

// IdentityVerifier authenticates an opaque bearer credential against the
// external identity provider.
type IdentityVerifier interface {
	// Verify validates the credential and returns the verified identity.
	Verify(ctx context.Context, bearerToken string) (*VerifiedIdentity, error)
}

// ClaimsChannel reads and writes the provider-managed per-subject claims
// payload that gets embedded into future verified credentials.
type ClaimsChannel interface {
	// SetClaims overwrites the subject's role claims. Idempotent.
	SetClaims(ctx context.Context, subject string, claims RoleClaims) error

	// GetClaims returns the subject's current role claims, or nil when the
	// subject carries none.
	GetClaims(ctx context.Context, subject string) (*RoleClaims, error)
}
