package model

import (
	"time"

	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

type MessageModel struct {
	ID             uint       `gorm:"primaryKey;autoIncrement;column:id"`
	MessageID      string     `gorm:"uniqueIndex:idx_message_id;size:36;not null;column:message_id"`
	ConversationID string     `gorm:"index:idx_conversation_id;size:36;not null;column:conversation_id"`
	SenderID       string     `gorm:"index:idx_sender_id;size:36;not null;column:sender_id"`
	Content        string     `gorm:"type:text;not null;column:content"`
	Kind           string     `gorm:"size:20;not null;default:text;column:message_type"`
	IsRead         bool       `gorm:"not null;default:false;column:is_read"`
	ReadAt         *time.Time `gorm:"column:read_at"`
	IsTodoTrigger  bool       `gorm:"not null;default:false;column:is_todo_trigger"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index:idx_created_at;not null;column:created_at"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) ToDomain() *domain.Message {
	return &domain.Message{
		ID:             m.MessageID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		Kind:           domain.MessageKind(m.Kind),
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		IsTodoTrigger:  m.IsTodoTrigger,
		CreatedAt:      m.CreatedAt,
	}
}

func ToMessageModel(d *domain.Message) *MessageModel {
	return &MessageModel{
		MessageID:      d.ID,
		ConversationID: d.ConversationID,
		SenderID:       d.SenderID,
		Content:        d.Content,
		Kind:           string(d.Kind),
		IsRead:         d.IsRead,
		ReadAt:         d.ReadAt,
		IsTodoTrigger:  d.IsTodoTrigger,
		CreatedAt:      d.CreatedAt,
	}
}
