package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/tientruong05/todo-talk-quynhon/internal/middleware"
)

// NewRouter 组装全部HTTP路由
func NewRouter(
	messageHandler *MessageHandler,
	taskHandler *TaskHandler,
	wsHandler *WSHandler,
	redisClient *redis.Client,
	jwtSecret string,
	rateLimitQPS int,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if redisClient != nil {
		r.Use(middleware.RateLimit(redisClient, rateLimitQPS))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.JwtAuth(jwtSecret))
	{
		messages := api.Group("/messages")
		{
			messages.POST("/send", messageHandler.Send)
			messages.GET("/conversation/:conversationId", messageHandler.History)
			messages.POST("/mark-read/:conversationId", messageHandler.MarkRead)
			messages.GET("/unread-count/:conversationId", messageHandler.UnreadCount)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("/create", taskHandler.Create)
			tasks.GET("/my-tasks", taskHandler.MyTasks)
			tasks.GET("/conversation/:conversationId", taskHandler.ConversationTasks)
			tasks.GET("/:taskId", taskHandler.Get)
			tasks.PUT("/:taskId/status", taskHandler.UpdateStatus)
			tasks.PUT("/:taskId/note", taskHandler.AddNote)
			tasks.DELETE("/:taskId", taskHandler.Delete)
		}
	}

	ws := r.Group("/ws")
	ws.Use(middleware.JwtAuth(jwtSecret))
	{
		ws.GET("/conversations/:conversationId", wsHandler.Serve)
	}

	return r
}
