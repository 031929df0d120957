package handler

import (
	"context"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/tientruong05/todo-talk-quynhon/internal/application"
	"github.com/tientruong05/todo-talk-quynhon/internal/broadcast"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

// WSHandler serves the persistent realtime connection for one
// conversation: it streams out every broadcast event of the conversation
// and accepts inbound send/mark_read commands over the same socket. Both
// directions go through the same application entry points as REST.
type WSHandler struct {
	hub      *broadcast.Hub
	messages *application.MessageService
}

func NewWSHandler(hub *broadcast.Hub, messages *application.MessageService) *WSHandler {
	return &WSHandler{hub: hub, messages: messages}
}

type wsCommand struct {
	Action  string `json:"action"` // send | mark_read
	Content string `json:"content,omitempty"`
	Kind    string `json:"message_type,omitempty"`
}

func (h *WSHandler) Serve(c *gin.Context) {
	conversationID := c.Param("conversationId")
	userID := c.GetString("user_id")

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WARN] websocket accept failed: %v", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "connection closed")

	ctx := c.Request.Context()
	events, cancel := h.hub.Subscribe(
		broadcast.Key(conversationID, broadcast.CategoryMessage),
		broadcast.Key(conversationID, broadcast.CategoryTask),
		broadcast.Key(conversationID, broadcast.CategoryRead),
	)
	defer cancel()

	// 写和读各一个goroutine，nhooyr只允许单读单写
	go h.writeLoop(ctx, conn, events)

	for {
		var cmd wsCommand
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			log.Printf("[WARN] websocket read: %v", err)
			return
		}
		h.handleCommand(ctx, conversationID, userID, cmd)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, events <-chan broadcast.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, conn, event); err != nil {
				return
			}
		}
	}
}

// handleCommand 失败只记日志，事件流继续
func (h *WSHandler) handleCommand(ctx context.Context, conversationID, userID string, cmd wsCommand) {
	switch cmd.Action {
	case "send":
		if _, err := h.messages.Send(ctx, conversationID, userID, cmd.Content, domain.MessageKind(cmd.Kind)); err != nil {
			log.Printf("[WARN] websocket send from %s failed: %v", userID, err)
		}
	case "mark_read":
		if _, err := h.messages.MarkRead(ctx, conversationID, userID); err != nil {
			log.Printf("[WARN] websocket mark_read from %s failed: %v", userID, err)
		}
	default:
		log.Printf("[WARN] websocket: unknown action %q from %s", cmd.Action, userID)
	}
}
