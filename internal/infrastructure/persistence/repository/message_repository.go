package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
	"github.com/tientruong05/todo-talk-quynhon/internal/infrastructure/persistence/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Save(ctx context.Context, m *domain.Message) error {
	message := model.ToMessageModel(m)
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	var m model.MessageModel
	if err := r.db.WithContext(ctx).Where("message_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find message: %w", err)
	}
	return m.ToDomain(), nil
}

func (r *MessageRepository) FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*domain.Message, error) {
	var models []*model.MessageModel
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	messages := make([]*domain.Message, len(models))
	for i, entity := range models {
		messages[i] = entity.ToDomain()
	}
	return messages, nil
}

func (r *MessageRepository) LastByConversationID(ctx context.Context, conversationID string) (*domain.Message, error) {
	var m model.MessageModel
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at desc").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last message: %w", err)
	}
	return m.ToDomain(), nil
}

// MarkRead 单条UPDATE批量翻转未读标记，幂等：已读的行不再匹配
func (r *MessageRepository) MarkRead(ctx context.Context, conversationID, readerID string, readAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.MessageModel{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Updates(map[string]any{"is_read": true, "read_at": readAt})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, conversationID, readerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.MessageModel{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
