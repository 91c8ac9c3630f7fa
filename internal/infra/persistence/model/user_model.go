// Package model contains GORM models mirroring the record store tables,
// with mappers to and from the pure domain entities.
package model

import (
	"time"

	"pethub/internal/domain/entity"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	IdentitySubject string    `gorm:"type:varchar(128);unique;not null"`
	Email           string    `gorm:"type:varchar(255);not null"`
	Role            string    `gorm:"type:varchar(16);not null"`
	RoleStatus      string    `gorm:"type:varchar(16);not null"`
	RequestedRole   *string   `gorm:"type:varchar(16)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the model into a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	user := &entity.User{
		ID:              m.ID,
		IdentitySubject: m.IdentitySubject,
		Email:           m.Email,
		Role:            entity.Role(m.Role),
		RoleStatus:      entity.RoleStatus(m.RoleStatus),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.RequestedRole != nil {
		role := entity.Role(*m.RequestedRole)
		user.RequestedRole = &role
	}

	return user
}

// UserModelFromEntity converts a domain entity into the GORM model.
func UserModelFromEntity(user *entity.User) *UserModel {
	m := &UserModel{
		ID:              user.ID,
		IdentitySubject: user.IdentitySubject,
		Email:           user.Email,
		Role:            user.Role.String(),
		RoleStatus:      user.RoleStatus.String(),
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
	if user.RequestedRole != nil {
		role := user.RequestedRole.String()
		m.RequestedRole = &role
	}

	return m
}
