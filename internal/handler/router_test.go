package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tientruong05/todo-talk-quynhon/internal/application"
	"github.com/tientruong05/todo-talk-quynhon/internal/broadcast"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
	"github.com/tientruong05/todo-talk-quynhon/internal/extraction"
)

const testSecret = "test-secret"

type stubMessageRepo struct {
	mu       sync.Mutex
	messages []*domain.Message
}

func (r *stubMessageRepo) Save(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *stubMessageRepo) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	return nil, nil
}

func (r *stubMessageRepo) FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Message(nil), r.messages...), nil
}

func (r *stubMessageRepo) LastByConversationID(ctx context.Context, conversationID string) (*domain.Message, error) {
	return nil, nil
}

func (r *stubMessageRepo) MarkRead(ctx context.Context, conversationID, readerID string, readAt time.Time) (int64, error) {
	return 0, nil
}

func (r *stubMessageRepo) CountUnread(ctx context.Context, conversationID, readerID string) (int64, error) {
	return 0, nil
}

type stubConversationRepo struct{}

func (stubConversationRepo) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	if id == "conv-1" {
		return &domain.Conversation{ID: "conv-1"}, nil
	}
	return nil, nil
}

type stubUserRepo struct{}

func (stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "alice" {
		return &domain.User{ID: "alice"}, nil
	}
	return nil, nil
}

type stubTaskRepo struct{}

func (stubTaskRepo) Save(ctx context.Context, task *domain.Task) error   { return nil }
func (stubTaskRepo) Update(ctx context.Context, task *domain.Task) error { return nil }
func (stubTaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	return nil, nil
}
func (stubTaskRepo) ExistsByMessageID(ctx context.Context, messageID string) (bool, error) {
	return false, nil
}
func (stubTaskRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Task, error) {
	return nil, nil
}
func (stubTaskRepo) FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*domain.Task, error) {
	return nil, nil
}
func (stubTaskRepo) FindByUserAndStatus(ctx context.Context, userID string, status domain.TaskStatus) ([]*domain.Task, error) {
	return nil, nil
}
func (stubTaskRepo) DeleteByID(ctx context.Context, id string) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := broadcast.NewHub()
	queue := extraction.NewQueue(16, 1)
	queue.SetProcessor(func(ctx context.Context, msg *domain.Message) {})
	queue.Start(context.Background())
	t.Cleanup(queue.Stop)

	msgSvc := application.NewMessageService(
		&stubMessageRepo{}, stubConversationRepo{}, stubUserRepo{},
		extraction.NewDetector(extraction.DefaultMarker), hub, queue,
	)
	taskSvc := application.NewTaskService(stubTaskRepo{}, &stubMessageRepo{}, stubUserRepo{}, stubConversationRepo{}, hub)

	return NewRouter(
		NewMessageHandler(msgSvc),
		NewTaskHandler(taskSvc),
		NewWSHandler(hub, msgSvc),
		nil, // 不挂redis，限流关闭
		testSecret,
		0,
	)
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestHealthNeedsNoAuth(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIRejectsMissingToken(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/messages/unread-count/conv-1", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAPIRejectsBadSignature(t *testing.T) {
	router := newTestRouter(t)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "alice"})
	signed, _ := token.SignedString([]byte("wrong-secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/messages/unread-count/conv-1", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestSendMessageEndpoint(t *testing.T) {
	router := newTestRouter(t)
	body, _ := json.Marshal(map[string]string{
		"conversation_id": "conv-1",
		"content":         "@Todo book flights",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/messages/send", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, "alice"))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var payload broadcast.MessagePayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.SenderID != "alice" {
		t.Errorf("sender should come from the token, got %q", payload.SenderID)
	}
	if !payload.IsTodoTrigger {
		t.Error("marked message should be flagged as trigger in the response")
	}
}

func TestSendMessageUnknownConversation(t *testing.T) {
	router := newTestRouter(t)
	body, _ := json.Marshal(map[string]string{
		"conversation_id": "conv-missing",
		"content":         "hello",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/messages/send", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, "alice"))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSendMessageValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing content", map[string]string{"conversation_id": "conv-1"}},
		{"missing conversation", map[string]string{"content": "hi"}},
		{"bad message type", map[string]string{"conversation_id": "conv-1", "content": "hi", "message_type": "video"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/messages/send", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+signToken(t, "alice"))
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}
