package model

import (
	"time"

	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

type TaskModel struct {
	ID             uint       `gorm:"primaryKey;autoIncrement;column:id"`
	TaskID         string     `gorm:"uniqueIndex:idx_task_id;size:36;not null;column:task_id"`
	MessageID      string     `gorm:"uniqueIndex:idx_task_message_id;size:36;not null;column:message_id"`
	UserID         string     `gorm:"index:idx_task_user_id;size:36;not null;column:user_id"`
	ConversationID string     `gorm:"index:idx_task_conversation_id;size:36;not null;column:conversation_id"`
	Description    string     `gorm:"type:text;not null;column:description"`
	Status         string     `gorm:"size:20;not null;index:idx_task_status;column:status"`
	DueDate        *time.Time `gorm:"column:due_date"`
	CompletionNote string     `gorm:"type:text;column:completion_note"`
	NoteAddedAt    *time.Time `gorm:"column:note_added_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;not null;column:created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime;not null;column:updated_at"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

func (m *TaskModel) ToDomain() *domain.Task {
	return &domain.Task{
		ID:             m.TaskID,
		MessageID:      m.MessageID,
		UserID:         m.UserID,
		ConversationID: m.ConversationID,
		Description:    m.Description,
		Status:         domain.TaskStatus(m.Status),
		DueDate:        m.DueDate,
		CompletionNote: m.CompletionNote,
		NoteAddedAt:    m.NoteAddedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		CompletedAt:    m.CompletedAt,
	}
}

func ToTaskModel(d *domain.Task) *TaskModel {
	return &TaskModel{
		TaskID:         d.ID,
		MessageID:      d.MessageID,
		UserID:         d.UserID,
		ConversationID: d.ConversationID,
		Description:    d.Description,
		Status:         string(d.Status),
		DueDate:        d.DueDate,
		CompletionNote: d.CompletionNote,
		NoteAddedAt:    d.NoteAddedAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		CompletedAt:    d.CompletedAt,
	}
}
