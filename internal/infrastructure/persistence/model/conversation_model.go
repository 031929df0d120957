package model

import (
	"time"

	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

type ConversationModel struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id"`
	ConversationID string    `gorm:"uniqueIndex:idx_conv_id;size:36;not null;column:conversation_id"`
	Name           string    `gorm:"size:100;column:name"`
	IsGroup        bool      `gorm:"not null;default:false;column:is_group"`
	CreatedAt      time.Time `gorm:"autoCreateTime;not null;column:created_at"`
}

func (ConversationModel) TableName() string {
	return "conversations"
}

// ParticipantModel 会话成员关系，成员管理由外部维护
type ParticipantModel struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id"`
	ConversationID string    `gorm:"uniqueIndex:idx_conv_user,priority:1;size:36;not null;column:conversation_id"`
	UserID         string    `gorm:"uniqueIndex:idx_conv_user,priority:2;size:36;not null;column:user_id"`
	JoinedAt       time.Time `gorm:"autoCreateTime;not null;column:joined_at"`
}

func (ParticipantModel) TableName() string {
	return "conversation_participants"
}

func (m *ConversationModel) ToDomain() *domain.Conversation {
	return &domain.Conversation{
		ID:        m.ConversationID,
		Name:      m.Name,
		IsGroup:   m.IsGroup,
		CreatedAt: m.CreatedAt,
	}
}
