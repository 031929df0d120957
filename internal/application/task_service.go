package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tientruong05/todo-talk-quynhon/internal/broadcast"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

// TaskService serves the direct task entry points. It shares the store
// with the extraction orchestrator, so the one-task-per-message rule
// holds across both paths.
type TaskService struct {
	tasks         domain.TaskRepository
	messages      domain.MessageRepository
	users         domain.UserRepository
	conversations domain.ConversationRepository
	hub           *broadcast.Hub
}

func NewTaskService(
	tasks domain.TaskRepository,
	messages domain.MessageRepository,
	users domain.UserRepository,
	conversations domain.ConversationRepository,
	hub *broadcast.Hub,
) *TaskService {
	return &TaskService{
		tasks:         tasks,
		messages:      messages,
		users:         users,
		conversations: conversations,
		hub:           hub,
	}
}

func (s *TaskService) Create(ctx context.Context, messageID, userID, conversationID, description string, dueDate *time.Time) (*domain.Task, error) {
	if description == "" {
		return nil, domain.ErrEmptyDescription
	}

	message, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("lookup message: %w", err)
	}
	if message == nil {
		return nil, domain.ErrMessageNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	conversation, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("lookup conversation: %w", err)
	}
	if conversation == nil {
		return nil, domain.ErrConversationNotFound
	}

	now := time.Now()
	task := &domain.Task{
		ID:             uuid.New().String(),
		MessageID:      messageID,
		UserID:         userID,
		ConversationID: conversationID,
		Description:    description,
		Status:         domain.TaskPending,
		DueDate:        dueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	s.hub.Publish(
		broadcast.Key(conversationID, broadcast.CategoryTask),
		broadcast.Event{Type: broadcast.CategoryTask, Payload: broadcast.FromTask(task)},
	)
	return task, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	task.SetStatus(status, time.Now())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) AddNote(ctx context.Context, taskID, note string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	now := time.Now()
	task.CompletionNote = note
	task.NoteAddedAt = &now
	task.UpdatedAt = now
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ByID(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) ByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Task, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.tasks.FindByUserID(ctx, userID, limit, offset)
}

func (s *TaskService) ByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*domain.Task, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.tasks.FindByConversationID(ctx, conversationID, limit, offset)
}

func (s *TaskService) ByUserAndStatus(ctx context.Context, userID string, status domain.TaskStatus) ([]*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.tasks.FindByUserAndStatus(ctx, userID, status)
}

func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	return s.tasks.DeleteByID(ctx, taskID)
}
