package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tientruong05/todo-talk-quynhon/internal/application"
	"github.com/tientruong05/todo-talk-quynhon/internal/broadcast"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

const dueDateLayout = "2006-01-02T15:04:05"

type TaskHandler struct {
	tasks *application.TaskService
}

func NewTaskHandler(tasks *application.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	MessageID      string `json:"message_id" binding:"required"`
	ConversationID string `json:"conversation_id" binding:"required"`
	Description    string `json:"description" binding:"required"`
	DueDate        string `json:"due_date"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID := c.GetString("user_id")

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message_id, conversation_id and description are required"})
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		t, err := time.Parse(dueDateLayout, req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DDTHH:MM:SS"})
			return
		}
		dueDate = &t
	}

	task, err := h.tasks.Create(c.Request.Context(), req.MessageID, userID, req.ConversationID, req.Description, dueDate)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, broadcast.FromTask(task))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), c.Param("taskId"), domain.TaskStatus(req.Status))
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, broadcast.FromTask(task))
}

type addNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

func (h *TaskHandler) AddNote(c *gin.Context) {
	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "note is required"})
		return
	}

	task, err := h.tasks.AddNote(c.Request.Context(), c.Param("taskId"), req.Note)
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, broadcast.FromTask(task))
}

// MyTasks 可选?status=过滤
func (h *TaskHandler) MyTasks(c *gin.Context) {
	userID := c.GetString("user_id")

	var (
		tasks []*domain.Task
		err   error
	)
	if status := c.Query("status"); status != "" {
		tasks, err = h.tasks.ByUserAndStatus(c.Request.Context(), userID, domain.TaskStatus(status))
	} else {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		tasks, err = h.tasks.ByUser(c.Request.Context(), userID, limit, offset)
	}
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": toTaskPayloads(tasks), "total": len(tasks)})
}

func (h *TaskHandler) ConversationTasks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tasks, err := h.tasks.ByConversation(c.Request.Context(), c.Param("conversationId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": toTaskPayloads(tasks), "total": len(tasks)})
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.ByID(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, broadcast.FromTask(task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.Param("taskId")); err != nil {
		c.JSON(taskErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func taskErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrMessageNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateTask):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrEmptyDescription):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func toTaskPayloads(tasks []*domain.Task) []*broadcast.TaskPayload {
	out := make([]*broadcast.TaskPayload, len(tasks))
	for i, t := range tasks {
		out[i] = broadcast.FromTask(t)
	}
	return out
}
