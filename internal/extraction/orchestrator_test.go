package extraction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tientruong05/todo-talk-quynhon/internal/broadcast"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

// fakeTaskRepo 内存实现，按message_id去重，语义和gorm版一致
type fakeTaskRepo struct {
	mu        sync.Mutex
	byMessage map[string]*domain.Task
	saveErr   error
	existsErr error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{byMessage: make(map[string]*domain.Task)}
}

func (r *fakeTaskRepo) Save(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.byMessage[task.MessageID]; ok {
		return domain.ErrDuplicateTask
	}
	r.byMessage[task.MessageID] = task
	return nil
}

func (r *fakeTaskRepo) ExistsByMessageID(ctx context.Context, messageID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.byMessage[messageID]
	return ok, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error   { return nil }
func (r *fakeTaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	return nil, nil
}
func (r *fakeTaskRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Task, error) {
	return nil, nil
}
func (r *fakeTaskRepo) FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*domain.Task, error) {
	return nil, nil
}
func (r *fakeTaskRepo) FindByUserAndStatus(ctx context.Context, userID string, status domain.TaskStatus) ([]*domain.Task, error) {
	return nil, nil
}
func (r *fakeTaskRepo) DeleteByID(ctx context.Context, id string) error { return nil }

type fakeAnalyzer struct {
	analysis *domain.TaskAnalysis
	err      error
	calls    int
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, content string) (*domain.TaskAnalysis, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.analysis, nil
}

func triggerMessage(id, content string) *domain.Message {
	return &domain.Message{
		ID:             id,
		ConversationID: "conv-1",
		SenderID:       "user-1",
		Content:        content,
		Kind:           domain.KindText,
		IsTodoTrigger:  true,
		CreatedAt:      time.Now(),
	}
}

func TestProcessSkipsNonTrigger(t *testing.T) {
	repo := newFakeTaskRepo()
	analyzer := &fakeAnalyzer{}
	orch := NewOrchestrator(NewDetector(DefaultMarker), analyzer, repo, broadcast.NewHub())

	msg := triggerMessage("msg-1", "just chatting")
	msg.IsTodoTrigger = false

	task, err := orch.Process(context.Background(), msg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if task != nil {
		t.Errorf("expected no task, got %+v", task)
	}
	if analyzer.calls != 0 {
		t.Errorf("analyzer should not be consulted for non-trigger messages, got %d calls", analyzer.calls)
	}
}

func TestProcessCreatesTaskAndPublishes(t *testing.T) {
	repo := newFakeTaskRepo()
	due := time.Date(2024, 5, 2, 23, 59, 59, 0, time.UTC)
	analyzer := &fakeAnalyzer{analysis: &domain.TaskAnalysis{
		Description: "submit report",
		DueDate:     &due,
		AIProcessed: true,
	}}
	hub := broadcast.NewHub()
	events, cancel := hub.Subscribe(broadcast.Key("conv-1", broadcast.CategoryTask))
	defer cancel()

	orch := NewOrchestrator(NewDetector(DefaultMarker), analyzer, repo, hub)
	task, err := orch.Process(context.Background(), triggerMessage("msg-1", "@Todo submit report tomorrow"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if task == nil {
		t.Fatal("expected a task")
	}
	if task.Description != "submit report" {
		t.Errorf("expected description from analyzer, got %q", task.Description)
	}
	if task.Status != domain.TaskPending {
		t.Errorf("expected pending status, got %s", task.Status)
	}
	if task.UserID != "user-1" {
		t.Errorf("task owner should be the sender, got %s", task.UserID)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("expected due date %v, got %v", due, task.DueDate)
	}

	select {
	case ev := <-events:
		if ev.Type != broadcast.CategoryTask {
			t.Errorf("expected task event, got %s", ev.Type)
		}
		payload, ok := ev.Payload.(*broadcast.TaskPayload)
		if !ok {
			t.Fatalf("unexpected payload type %T", ev.Payload)
		}
		if payload.TaskID != task.ID {
			t.Errorf("payload task id %s, want %s", payload.TaskID, task.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no task event broadcast")
	}
}

func TestProcessFallsBackWhenAnalyzerFails(t *testing.T) {
	repo := newFakeTaskRepo()
	analyzer := &fakeAnalyzer{err: domain.ErrAnalysisUnavailable}

	orch := NewOrchestrator(NewDetector(DefaultMarker), analyzer, repo, broadcast.NewHub())
	task, err := orch.Process(context.Background(), triggerMessage("msg-1", "@Todo call the dentist"))
	if err != nil {
		t.Fatalf("analyzer failure must not fail processing: %v", err)
	}
	if task == nil {
		t.Fatal("expected a fallback task")
	}
	if task.Description != "call the dentist" {
		t.Errorf("expected marker-stripped fallback description, got %q", task.Description)
	}
	if task.DueDate != nil {
		t.Errorf("fallback task must not carry a due date, got %v", task.DueDate)
	}
	if analyzer.calls != 1 {
		t.Errorf("expected exactly one analysis attempt, got %d", analyzer.calls)
	}
}

func TestProcessSkipsExistingTask(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.byMessage["msg-1"] = &domain.Task{ID: "task-0", MessageID: "msg-1"}
	analyzer := &fakeAnalyzer{}

	orch := NewOrchestrator(NewDetector(DefaultMarker), analyzer, repo, broadcast.NewHub())
	task, err := orch.Process(context.Background(), triggerMessage("msg-1", "@Todo do it again"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if task != nil {
		t.Errorf("expected no new task for already-processed message, got %+v", task)
	}
	if analyzer.calls != 0 {
		t.Errorf("analyzer should not run when the task already exists, got %d calls", analyzer.calls)
	}
}

// raceProneRepo报告任务不存在，强制走到Save的唯一键冲突分支
type raceProneRepo struct {
	*fakeTaskRepo
}

func (r *raceProneRepo) ExistsByMessageID(ctx context.Context, messageID string) (bool, error) {
	return false, nil
}

func TestProcessDuplicateSaveIsBenign(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.byMessage["msg-1"] = &domain.Task{ID: "task-0", MessageID: "msg-1"}
	analyzer := &fakeAnalyzer{analysis: &domain.TaskAnalysis{Description: "x", AIProcessed: true}}

	// 存在性检查放行但Save冲突，模拟两个worker同时处理同一条消息
	orch := NewOrchestrator(NewDetector(DefaultMarker), analyzer, &raceProneRepo{repo}, broadcast.NewHub())
	task, err := orch.Process(context.Background(), triggerMessage("msg-1", "@Todo x"))
	if err != nil {
		t.Fatalf("duplicate save must be treated as success: %v", err)
	}
	if task != nil {
		t.Errorf("expected no task on duplicate save, got %+v", task)
	}
}

func TestProcessPersistFailure(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.saveErr = errors.New("db down")
	analyzer := &fakeAnalyzer{analysis: &domain.TaskAnalysis{Description: "x", AIProcessed: true}}
	hub := broadcast.NewHub()
	events, cancel := hub.Subscribe(broadcast.Key("conv-1", broadcast.CategoryTask))
	defer cancel()

	orch := NewOrchestrator(NewDetector(DefaultMarker), analyzer, repo, hub)
	task, err := orch.Process(context.Background(), triggerMessage("msg-1", "@Todo x"))
	if err == nil {
		t.Fatal("expected persist error to surface")
	}
	if task != nil {
		t.Errorf("expected no task on persist failure, got %+v", task)
	}

	select {
	case ev := <-events:
		t.Errorf("no event should be published on persist failure, got %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProcessEmptyAnalyzerDescriptionFallsBack(t *testing.T) {
	repo := newFakeTaskRepo()
	analyzer := &fakeAnalyzer{analysis: &domain.TaskAnalysis{Description: "", AIProcessed: true}}

	orch := NewOrchestrator(NewDetector(DefaultMarker), analyzer, repo, broadcast.NewHub())
	task, err := orch.Process(context.Background(), triggerMessage("msg-1", "@Todo water the plants"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if task.Description != "water the plants" {
		t.Errorf("expected stripped content when analyzer returns empty description, got %q", task.Description)
	}
}
