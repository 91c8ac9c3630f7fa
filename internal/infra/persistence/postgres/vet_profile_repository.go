package postgres

import (
	"context"

	"pethub/internal/domain/entity"
	domainerrors "pethub/internal/domain/errors"
	"pethub/internal/domain/repository"
	"pethub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// vetProfileRepository implements the domain.VetProfileRepository interface.
type vetProfileRepository struct {
	db *gorm.DB
}

// NewVetProfileRepository is the constructor for vetProfileRepository.
func NewVetProfileRepository(db *gorm.DB) repository.VetProfileRepository {
	return &vetProfileRepository{db: db}
}

// FindByUserID retrieves the profile owned by the given user.
func (repo *vetProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.VetProfile, error) {
	var profileM model.VetProfileModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVetProfileNotFound
		}

		return nil, errors.WithStack(err)
	}

	return profileM.ToEntity(), nil
}

// Upsert creates the user's profile or overwrites its license fields,
// keyed on the unique user_id column.
func (repo *vetProfileRepository) Upsert(ctx context.Context, profile *entity.VetProfile) error {
	profileM := model.VetProfileModelFromEntity(profile)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"license_number",
				"license_country",
				"verified",
				"verified_at",
				"verification_source",
				"updated_at",
			}),
		}).
		Create(profileM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert vet profile")
	}

	profile.ID = profileM.ID
	profile.CreatedAt = profileM.CreatedAt
	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}
