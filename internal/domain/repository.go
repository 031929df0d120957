package domain

import (
	"context"
	"time"
)

// MessageRepository 定义消息数据访问接口
// 不关心具体实现是db还是内存
type MessageRepository interface {
	Save(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id string) (*Message, error)
	FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*Message, error)
	LastByConversationID(ctx context.Context, conversationID string) (*Message, error)

	// MarkRead flips every unread message in the conversation not sent by
	// readerID to read in one batch and returns the number of rows changed.
	MarkRead(ctx context.Context, conversationID, readerID string, readAt time.Time) (int64, error)
	CountUnread(ctx context.Context, conversationID, readerID string) (int64, error)
}

// TaskRepository Save返回ErrDuplicateTask当message_id已存在
type TaskRepository interface {
	Save(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	ExistsByMessageID(ctx context.Context, messageID string) (bool, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*Task, error)
	FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*Task, error)
	FindByUserAndStatus(ctx context.Context, userID string, status TaskStatus) ([]*Task, error)
	DeleteByID(ctx context.Context, id string) error
}

type ConversationRepository interface {
	FindByID(ctx context.Context, id string) (*Conversation, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}
