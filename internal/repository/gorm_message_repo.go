package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, msg *domain.DirectMessage) error {
	model := domain.DirectMessageToModel(msg)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	msg.ID = model.ID
	msg.CreatedAt = model.CreatedAt
	return nil
}

func (r *GormMessageRepository) Conversation(ctx context.Context, userA, userB string, limit int) ([]domain.DirectMessage, error) {
	var models []domain.DirectMessageModel
	err := r.db.WithContext(ctx).
		Where("(sender_key = ? AND receiver_key = ?) OR (sender_key = ? AND receiver_key = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	// Query walks backwards from the newest row; flip to ascending.
	messages := make([]domain.DirectMessage, len(models))
	for i := range models {
		messages[len(models)-1-i] = *models[i].ToDomain()
	}
	return messages, nil
}

var _ MessageRepository = (*GormMessageRepository)(nil)
