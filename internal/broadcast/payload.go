package broadcast

import (
	"time"

	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

// MessagePayload 消息在广播和REST响应里的传输形态
type MessagePayload struct {
	MessageID      string     `json:"message_id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Content        string     `json:"content"`
	Kind           string     `json:"message_type"`
	IsRead         bool       `json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	IsTodoTrigger  bool       `json:"is_todo_trigger"`
	CreatedAt      time.Time  `json:"created_at"`
}

type TaskPayload struct {
	TaskID         string     `json:"task_id"`
	MessageID      string     `json:"message_id"`
	UserID         string     `json:"user_id"`
	ConversationID string     `json:"conversation_id"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CompletionNote string     `json:"completion_note,omitempty"`
	NoteAddedAt    *time.Time `json:"note_added_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func FromMessage(m *domain.Message) *MessagePayload {
	return &MessagePayload{
		MessageID:      m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		Kind:           string(m.Kind),
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		IsTodoTrigger:  m.IsTodoTrigger,
		CreatedAt:      m.CreatedAt,
	}
}

func FromTask(t *domain.Task) *TaskPayload {
	return &TaskPayload{
		TaskID:         t.ID,
		MessageID:      t.MessageID,
		UserID:         t.UserID,
		ConversationID: t.ConversationID,
		Description:    t.Description,
		Status:         string(t.Status),
		DueDate:        t.DueDate,
		CompletionNote: t.CompletionNote,
		NoteAddedAt:    t.NoteAddedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		CompletedAt:    t.CompletedAt,
	}
}
