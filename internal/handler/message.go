package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tientruong05/todo-talk-quynhon/internal/application"
	"github.com/tientruong05/todo-talk-quynhon/internal/broadcast"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

type MessageHandler struct {
	messages *application.MessageService
}

func NewMessageHandler(messages *application.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Content        string `json:"content" binding:"required"`
	Kind           string `json:"message_type"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id and content are required"})
		return
	}
	kind := domain.MessageKind(req.Kind)
	if req.Kind != "" && !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown message_type"})
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), req.ConversationID, userID, req.Content, kind)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrConversationNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, broadcast.FromMessage(msg))
}

func (h *MessageHandler) History(c *gin.Context) {
	conversationID := c.Param("conversationId")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.messages.History(c.Request.Context(), conversationID, limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	out := make([]*broadcast.MessagePayload, len(messages))
	for i, m := range messages {
		out[i] = broadcast.FromMessage(m)
	}
	c.JSON(http.StatusOK, gin.H{"messages": out, "total": len(out)})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("conversationId")

	count, err := h.messages.MarkRead(c.Request.Context(), conversationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark messages read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("conversationId")

	count, err := h.messages.UnreadCount(c.Request.Context(), conversationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count unread messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
