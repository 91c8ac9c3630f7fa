package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// UnverifiedLicensePlaceholder fills license fields when approval
	// evidence was absent or unparseable, so a profile row always exists
	// once a vet role is live.
	UnverifiedLicensePlaceholder = "UNVERIFIED"

	// VerificationSourceRoleRequest marks profiles whose license fields
	// were taken from role request evidence.
	VerificationSourceRoleRequest = "role_request_evidence"
	// VerificationSourcePlaceholder marks profiles created without evidence.
	VerificationSourcePlaceholder = "placeholder"
)

// VetProfile holds the professional record attached to a user who holds,
// or once held, the vet role. One profile per user.
type VetProfile struct {
	ID                 uuid.UUID
	UserID             uuid.UUID // Unique; one profile per vet.
	LicenseNumber      string
	LicenseCountry     string
	Verified           bool
	VerifiedAt         *time.Time
	VerificationSource string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// licenseEvidencePattern matches the expected evidence shape carried in a
// role request's reason text: "License: X, Country: Y".
var licenseEvidencePattern = regexp.MustCompile(`(?i)license:\s*([^,]+),\s*country:\s*(\S+)`)

// ParseLicenseEvidence extracts license number and country from reason
// text. ok is false when the text does not carry evidence in the expected
// shape.
func ParseLicenseEvidence(reason string) (licenseNumber, licenseCountry string, ok bool) {
	matches := licenseEvidencePattern.FindStringSubmatch(reason)
	if matches == nil {
		return "", "", false
	}

	return strings.TrimSpace(matches[1]), strings.TrimSpace(matches[2]), true
}

// FormatLicenseEvidence renders license fields into the canonical evidence
// shape stored on a role request.
func FormatLicenseEvidence(licenseNumber, licenseCountry string) string {
	return "License: " + licenseNumber + ", Country: " + licenseCountry
}
