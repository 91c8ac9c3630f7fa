package model

import (
	"time"

	"pethub/internal/domain/entity"

	"github.com/google/uuid"
)

// VetProfileModel mirrors the 'vet_profiles' table. UserID is unique: one
// profile per vet.
type VetProfileModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID             uuid.UUID `gorm:"type:uuid;unique;not null"`
	LicenseNumber      string    `gorm:"type:varchar(128);not null"`
	LicenseCountry     string    `gorm:"type:varchar(64);not null"`
	Verified           bool      `gorm:"not null"`
	VerifiedAt         *time.Time
	VerificationSource string `gorm:"type:varchar(64);not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (VetProfileModel) TableName() string {
	return "vet_profiles"
}

// ToEntity converts the model into a domain entity.
func (m *VetProfileModel) ToEntity() *entity.VetProfile {
	return &entity.VetProfile{
		ID:                 m.ID,
		UserID:             m.UserID,
		LicenseNumber:      m.LicenseNumber,
		LicenseCountry:     m.LicenseCountry,
		Verified:           m.Verified,
		VerifiedAt:         m.VerifiedAt,
		VerificationSource: m.VerificationSource,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// VetProfileModelFromEntity converts a domain entity into the GORM model.
func VetProfileModelFromEntity(profile *entity.VetProfile) *VetProfileModel {
	return &VetProfileModel{
		ID:                 profile.ID,
		UserID:             profile.UserID,
		LicenseNumber:      profile.LicenseNumber,
		LicenseCountry:     profile.LicenseCountry,
		Verified:           profile.Verified,
		VerifiedAt:         profile.VerifiedAt,
		VerificationSource: profile.VerificationSource,
		CreatedAt:          profile.CreatedAt,
		UpdatedAt:          profile.UpdatedAt,
	}
}
