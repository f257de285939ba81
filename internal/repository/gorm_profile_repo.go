package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
)

// GormProfileRepository implements ProfileRepository using GORM.
type GormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// Upsert inserts the profile or updates its display fields when the key
// already exists.
func (r *GormProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	model := domain.ProfileToModel(profile)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "avatar", "avatar_color", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	profile.CreatedAt = model.CreatedAt
	profile.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormProfileRepository) GetByKey(ctx context.Context, key string) (*domain.Profile, error) {
	var model domain.ProfileModel
	result := r.db.WithContext(ctx).First(&model, "user_key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

func (r *GormProfileRepository) SearchByName(ctx context.Context, q, excludeKey string, limit int) ([]domain.Profile, error) {
	var models []domain.ProfileModel
	err := r.db.WithContext(ctx).
		Where("name LIKE ? AND user_key <> ?", "%"+q+"%", excludeKey).
		Order("name ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(models))
	for i := range models {
		profiles = append(profiles, *models[i].ToDomain())
	}
	return profiles, nil
}

var _ ProfileRepository = (*GormProfileRepository)(nil)
