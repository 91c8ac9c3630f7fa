package model

import (
	"time"

	"pethub/internal/domain/entity"

	"github.com/google/uuid"
)

// RoleRequestModel mirrors the 'role_requests' table.
type RoleRequestModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	RequestedRole string     `gorm:"type:varchar(16);not null"`
	Status        string     `gorm:"type:varchar(16);not null;index"`
	ReviewedBy    *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt    *time.Time
	Reason        string `gorm:"type:text"`
	CreatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (RoleRequestModel) TableName() string {
	return "role_requests"
}

// ToEntity converts the model into a domain entity.
func (m *RoleRequestModel) ToEntity() *entity.RoleRequest {
	return &entity.RoleRequest{
		ID:            m.ID,
		UserID:        m.UserID,
		RequestedRole: entity.Role(m.RequestedRole),
		Status:        entity.RequestStatus(m.Status),
		ReviewedBy:    m.ReviewedBy,
		ReviewedAt:    m.ReviewedAt,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

// RoleRequestModelFromEntity converts a domain entity into the GORM model.
func RoleRequestModelFromEntity(request *entity.RoleRequest) *RoleRequestModel {
	return &RoleRequestModel{
		ID:            request.ID,
		UserID:        request.UserID,
		RequestedRole: request.RequestedRole.String(),
		Status:        request.Status.String(),
		ReviewedBy:    request.ReviewedBy,
		ReviewedAt:    request.ReviewedAt,
		Reason:        request.Reason,
		CreatedAt:     request.CreatedAt,
	}
}
