package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
	"github.com/tientruong05/todo-talk-quynhon/internal/infrastructure/persistence/model"

	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var m model.ConversationModel
	if err := r.db.WithContext(ctx).Where("conversation_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return m.ToDomain(), nil
}
