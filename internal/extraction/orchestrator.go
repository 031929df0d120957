// Package extraction derives tasks from marked messages. Everything in
// here runs off the message ingestion path: failures are logged and
// swallowed, never surfaced to the original sender.
package extraction

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tientruong05/todo-talk-quynhon/internal/broadcast"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

type Orchestrator struct {
	detector Detector
	analyzer domain.TaskAnalyzerService
	tasks    domain.TaskRepository
	hub      *broadcast.Hub
}

func NewOrchestrator(detector Detector, analyzer domain.TaskAnalyzerService, tasks domain.TaskRepository, hub *broadcast.Hub) *Orchestrator {
	return &Orchestrator{
		detector: detector,
		analyzer: analyzer,
		tasks:    tasks,
		hub:      hub,
	}
}

// Process derives at most one task from a persisted message. It keys off
// the stored trigger flag, never re-detects. One attempt per message: a
// failed analysis falls back, a failed persist is logged and dropped.
func (o *Orchestrator) Process(ctx context.Context, msg *domain.Message) (*domain.Task, error) {
	if !msg.IsTodoTrigger {
		return nil, nil
	}

	exists, err := o.tasks.ExistsByMessageID(ctx, msg.ID)
	if err != nil {
		log.Printf("[ERROR] extraction: existence check for message %s: %v", msg.ID, err)
		return nil, err
	}
	if exists {
		log.Printf("[INFO] extraction: task already exists for message %s, skipping", msg.ID)
		return nil, nil
	}

	analysis := o.analyze(ctx, msg)

	now := time.Now()
	task := &domain.Task{
		ID:             uuid.New().String(),
		MessageID:      msg.ID,
		UserID:         msg.SenderID,
		ConversationID: msg.ConversationID,
		Description:    analysis.Description,
		Status:         domain.TaskPending,
		DueDate:        analysis.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := o.tasks.Save(ctx, task); err != nil {
		if errors.Is(err, domain.ErrDuplicateTask) {
			// 并发重复处理，算幂等成功
			log.Printf("[INFO] extraction: duplicate task for message %s, skipping", msg.ID)
			return nil, nil
		}
		log.Printf("[ERROR] extraction: persist task for message %s: %v", msg.ID, err)
		return nil, err
	}

	o.hub.Publish(
		broadcast.Key(task.ConversationID, broadcast.CategoryTask),
		broadcast.Event{Type: broadcast.CategoryTask, Payload: broadcast.FromTask(task)},
	)
	log.Printf("[INFO] extraction: task %s created from message %s (ai=%v)", task.ID, msg.ID, analysis.AIProcessed)
	return task, nil
}

// analyze always produces a usable result: analyzer failures of any kind
// degrade to the deterministic marker-stripped fallback.
func (o *Orchestrator) analyze(ctx context.Context, msg *domain.Message) *domain.TaskAnalysis {
	analysis, err := o.analyzer.Analyze(ctx, msg.Content)
	if err != nil {
		log.Printf("[WARN] extraction: analyzer failed for message %s, using fallback: %v", msg.ID, err)
		return o.fallback(msg.Content)
	}
	if analysis.Description == "" {
		analysis.Description = o.detector.Strip(msg.Content)
	}
	return analysis
}

func (o *Orchestrator) fallback(content string) *domain.TaskAnalysis {
	return &domain.TaskAnalysis{
		Description: o.detector.Strip(content),
		AIProcessed: false,
	}
}
