package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tientruong05/todo-talk-quynhon/internal/broadcast"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
	"github.com/tientruong05/todo-talk-quynhon/internal/extraction"
)

const defaultHistoryLimit = 50

// MessageService is the single ingestion entry point, shared by the REST
// handlers and the websocket transport. It also owns read-state.
type MessageService struct {
	messages      domain.MessageRepository
	conversations domain.ConversationRepository
	users         domain.UserRepository
	detector      extraction.Detector
	hub           *broadcast.Hub
	queue         *extraction.Queue
}

func NewMessageService(
	messages domain.MessageRepository,
	conversations domain.ConversationRepository,
	users domain.UserRepository,
	detector extraction.Detector,
	hub *broadcast.Hub,
	queue *extraction.Queue,
) *MessageService {
	return &MessageService{
		messages:      messages,
		conversations: conversations,
		users:         users,
		detector:      detector,
		hub:           hub,
		queue:         queue,
	}
}

// Send persists the message, broadcasts MessageCreated synchronously and
// hands the message to the extraction queue without waiting on it. The
// trigger flag is computed here, before persistence, and never again.
// Send的成败和分析服务的可用性无关。
func (s *MessageService) Send(ctx context.Context, conversationID, senderID, content string, kind domain.MessageKind) (*domain.Message, error) {
	conversation, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("lookup conversation: %w", err)
	}
	if conversation == nil {
		return nil, domain.ErrConversationNotFound
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("lookup sender: %w", err)
	}
	if sender == nil {
		return nil, domain.ErrUserNotFound
	}

	if kind == "" {
		kind = domain.KindText
	}

	msg := &domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Kind:           kind,
		IsTodoTrigger:  s.detector.Detect(content),
		CreatedAt:      time.Now(),
	}

	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.Publish(
		broadcast.Key(conversationID, broadcast.CategoryMessage),
		broadcast.Event{Type: broadcast.CategoryMessage, Payload: broadcast.FromMessage(msg)},
	)

	if err := s.queue.Enqueue(msg); err != nil {
		// 提取排不进队列不影响消息投递
		log.Printf("[WARN] message %s not queued for extraction: %v", msg.ID, err)
	}

	return msg, nil
}

func (s *MessageService) History(ctx context.Context, conversationID string, limit, offset int) ([]*domain.Message, error) {
	conversation, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("lookup conversation: %w", err)
	}
	if conversation == nil {
		return nil, domain.ErrConversationNotFound
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.messages.FindByConversationID(ctx, conversationID, limit, offset)
}

func (s *MessageService) Last(ctx context.Context, conversationID string) (*domain.Message, error) {
	return s.messages.LastByConversationID(ctx, conversationID)
}

// MarkRead flips every unread message not sent by the reader in one
// batch and returns how many changed. Zero is a normal result; the
// receipt is broadcast only when something actually transitioned, and
// only once per call rather than per message.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	count, err := s.messages.MarkRead(ctx, conversationID, readerID, time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.hub.Publish(
			broadcast.Key(conversationID, broadcast.CategoryRead),
			broadcast.Event{
				Type: broadcast.CategoryRead,
				Payload: &broadcast.ReadReceipt{
					ConversationID: conversationID,
					ReaderID:       readerID,
				},
			},
		)
	}
	return count, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, conversationID, readerID string) (int64, error) {
	return s.messages.CountUnread(ctx, conversationID, readerID)
}
