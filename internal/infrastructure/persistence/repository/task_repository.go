package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
	"github.com/tientruong05/todo-talk-quynhon/internal/infrastructure/persistence/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Save relies on the unique index on message_id to keep the one-task-per-
// message invariant; a conflicting insert comes back as ErrDuplicateTask.
func (r *TaskRepository) Save(ctx context.Context, t *domain.Task) error {
	task := model.ToTaskModel(t)
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateTask
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	task := model.ToTaskModel(t)
	result := r.db.WithContext(ctx).
		Model(&model.TaskModel{}).
		Where("task_id = ?", t.ID).
		Updates(map[string]any{
			"status":          task.Status,
			"description":     task.Description,
			"due_date":        task.DueDate,
			"completion_note": task.CompletionNote,
			"note_added_at":   task.NoteAddedAt,
			"updated_at":      task.UpdatedAt,
			"completed_at":    task.CompletedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var m model.TaskModel
	if err := r.db.WithContext(ctx).Where("task_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return m.ToDomain(), nil
}

func (r *TaskRepository) ExistsByMessageID(ctx context.Context, messageID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.TaskModel{}).
		Where("message_id = ?", messageID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check task existence: %w", err)
	}
	return count > 0, nil
}

func (r *TaskRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Task, error) {
	var models []*model.TaskModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	return toDomainTasks(models), nil
}

func (r *TaskRepository) FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*domain.Task, error) {
	var models []*model.TaskModel
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	return toDomainTasks(models), nil
}

func (r *TaskRepository) FindByUserAndStatus(ctx context.Context, userID string, status domain.TaskStatus) ([]*domain.Task, error) {
	var models []*model.TaskModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(status)).
		Order("created_at desc").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	return toDomainTasks(models), nil
}

func (r *TaskRepository) DeleteByID(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("task_id = ?", id).Delete(&model.TaskModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func toDomainTasks(models []*model.TaskModel) []*domain.Task {
	tasks := make([]*domain.Task, len(models))
	for i, entity := range models {
		tasks[i] = entity.ToDomain()
	}
	return tasks
}
