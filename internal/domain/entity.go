package domain

import (
	"time"
)

type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindFile  MessageKind = "file"
)

func (k MessageKind) Valid() bool {
	switch k {
	case KindText, KindImage, KindFile:
		return true
	}
	return false
}

// Message 核心消息实体
// IsTodoTrigger is computed once when the message is created and never
// recomputed afterwards. IsRead/ReadAt are mutated only by MarkRead.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Content        string
	Kind           MessageKind
	IsRead         bool
	ReadAt         *time.Time
	IsTodoTrigger  bool
	CreatedAt      time.Time
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Task 从消息派生的任务实体。MessageID上有唯一约束：一条消息最多派生一个任务。
type Task struct {
	ID             string
	MessageID      string
	UserID         string
	ConversationID string
	Description    string
	Status         TaskStatus
	DueDate        *time.Time
	CompletionNote string
	NoteAddedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// SetStatus keeps the completed-at invariant: CompletedAt is set if and
// only if the status is completed; moving away from completed clears it.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	t.UpdatedAt = now
	if status == TaskCompleted {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// TaskAnalysis 分析结果，不持久化
// AIProcessed is false when the result came from the degraded fallback.
type TaskAnalysis struct {
	Description string
	DueDate     *time.Time
	AIProcessed bool
}

type Conversation struct {
	ID        string
	Name      string
	IsGroup   bool
	CreatedAt time.Time
}

type User struct {
	ID        string
	Username  string
	FullName  string
	AvatarURL string
	CreatedAt time.Time
}
