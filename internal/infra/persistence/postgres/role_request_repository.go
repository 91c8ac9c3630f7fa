package postgres

import (
	"context"
	"time"

	"pethub/internal/domain/entity"
	domainerrors "pethub/internal/domain/errors"
	"pethub/internal/domain/repository"
	"pethub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// roleRequestRepository implements the domain.RoleRequestRepository interface.
type roleRequestRepository struct {
	db *gorm.DB
}

// NewRoleRequestRepository is the constructor for roleRequestRepository.
func NewRoleRequestRepository(db *gorm.DB) repository.RoleRequestRepository {
	return &roleRequestRepository{db: db}
}

// FindByID retrieves a single role request by its unique ID.
func (repo *roleRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RoleRequest, error) {
	var requestM model.RoleRequestModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&requestM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleRequestNotFound
		}

		return nil, errors.WithStack(err)
	}

	return requestM.ToEntity(), nil
}

// FindPendingByUserID returns the user's pending request, or
// ErrRoleRequestNotFound when none is outstanding.
func (repo *roleRequestRepository) FindPendingByUserID(ctx context.Context, userID uuid.UUID) (*entity.RoleRequest, error) {
	var requestM model.RoleRequestModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, entity.RequestStatusPending.String()).
		First(&requestM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleRequestNotFound
		}

		return nil, errors.WithStack(err)
	}

	return requestM.ToEntity(), nil
}

// ListByUserID returns all of a user's requests, newest first.
func (repo *roleRequestRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RoleRequest, error) {
	var requestModels []*model.RoleRequestModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requestModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	return toRoleRequestEntities(requestModels), nil
}

// ListPending returns all pending requests, oldest first so the review
// queue is fair.
func (repo *roleRequestRepository) ListPending(ctx context.Context) ([]*entity.RoleRequest, error) {
	var requestModels []*model.RoleRequestModel
	if err := repo.db.WithContext(ctx).
		Where("status = ?", entity.RequestStatusPending.String()).
		Order("created_at ASC").
		Find(&requestModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	return toRoleRequestEntities(requestModels), nil
}

// Create persists a new pending role request.
func (repo *roleRequestRepository) Create(ctx context.Context, request *entity.RoleRequest) error {
	requestM := model.RoleRequestModelFromEntity(request)

	if err := repo.db.WithContext(ctx).Create(requestM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrNotFound.WrapMessage("invalid user reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create role request")
	}

	// Update the entity with generated values
	request.ID = requestM.ID
	request.CreatedAt = requestM.CreatedAt

	return nil
}

// Decide transitions the request from pending to the given status as one
// conditional update. Matching zero rows means another decision won the
// race; the caller maps that to an already-processed conflict.
func (repo *roleRequestRepository) Decide(ctx context.Context, id uuid.UUID, status entity.RequestStatus, reviewedBy uuid.UUID, reviewedAt time.Time, reason string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RoleRequestModel{}).
		Where("id = ? AND status = ?", id, entity.RequestStatusPending.String()).
		Updates(map[string]any{
			"status":      status.String(),
			"reviewed_by": reviewedBy,
			"reviewed_at": reviewedAt,
			"reason":      reason,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to decide role request")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRoleRequestAlreadyDecided
	}

	return nil
}

// toRoleRequestEntities converts a slice of GORM models to domain entities.
func toRoleRequestEntities(requestModels []*model.RoleRequestModel) []*entity.RoleRequest {
	requests := make([]*entity.RoleRequest, 0, len(requestModels))
	for _, requestM := range requestModels {
		requests = append(requests, requestM.ToEntity())
	}

	return requests
}
