package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// GORM v1.25+ wraps these as gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// GormFriendshipRepository implements FriendshipRepository using GORM.
type GormFriendshipRepository struct {
	db *gorm.DB
}

func NewGormFriendshipRepository(db *gorm.DB) *GormFriendshipRepository {
	return &GormFriendshipRepository{db: db}
}

// CreatePending inserts a pending friendship for the canonicalized pair.
// A row already present for the pair, in either status, yields
// ErrFriendshipExists.
func (r *GormFriendshipRepository) CreatePending(ctx context.Context, requester, recipient string) (*domain.Friendship, error) {
	low, high := domain.CanonicalPair(requester, recipient)
	model := domain.FriendshipModel{
		UserLow:   low,
		UserHigh:  high,
		Requester: requester,
		Status:    domain.FriendStatusPending,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrFriendshipExists
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Accept flips a pending friendship to accepted. Only a row created by the
// given requester matches, so a requester cannot accept its own request.
func (r *GormFriendshipRepository) Accept(ctx context.Context, requester, recipient string) error {
	low, high := domain.CanonicalPair(requester, recipient)
	result := r.db.WithContext(ctx).
		Model(&domain.FriendshipModel{}).
		Where("user_low = ? AND user_high = ? AND requester = ? AND status = ?",
			low, high, requester, domain.FriendStatusPending).
		Update("status", domain.FriendStatusAccepted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

func (r *GormFriendshipRepository) Delete(ctx context.Context, userA, userB string) error {
	low, high := domain.CanonicalPair(userA, userB)
	result := r.db.WithContext(ctx).
		Where("user_low = ? AND user_high = ?", low, high).
		Delete(&domain.FriendshipModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

func (r *GormFriendshipRepository) ListForUser(ctx context.Context, key string) ([]domain.Friendship, error) {
	var models []domain.FriendshipModel
	err := r.db.WithContext(ctx).
		Where("user_low = ? OR user_high = ?", key, key).
		Order("updated_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	friendships := make([]domain.Friendship, 0, len(models))
	for i := range models {
		friendships = append(friendships, *models[i].ToDomain())
	}
	return friendships, nil
}

var _ FriendshipRepository = (*GormFriendshipRepository)(nil)
