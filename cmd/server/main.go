package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tientruong05/todo-talk-quynhon/config"
	"github.com/tientruong05/todo-talk-quynhon/infra/cache"
	"github.com/tientruong05/todo-talk-quynhon/infra/database"
	"github.com/tientruong05/todo-talk-quynhon/internal/application"
	"github.com/tientruong05/todo-talk-quynhon/internal/broadcast"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
	"github.com/tientruong05/todo-talk-quynhon/internal/extraction"
	"github.com/tientruong05/todo-talk-quynhon/internal/handler"
	"github.com/tientruong05/todo-talk-quynhon/internal/infrastructure/analyzer"
	"github.com/tientruong05/todo-talk-quynhon/internal/infrastructure/persistence/model"
	"github.com/tientruong05/todo-talk-quynhon/internal/infrastructure/persistence/repository"
	"github.com/tientruong05/todo-talk-quynhon/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.LoadConfig("todo-talk")

	// 生产环境关掉gin的debug输出
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		log.Fatalf("连接Postgres失败: %v", err)
	}
	defer db.Close()

	if err := db.CreateTables(
		&model.UserModel{},
		&model.ConversationModel{},
		&model.ParticipantModel{},
		&model.MessageModel{},
		&model.TaskModel{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// Redis不可用时限流退化为直通
	var redisClient *redis.Client
	if redisClient, err = cache.NewRedisClient(&cfg.Redis); err != nil {
		log.Printf("[WARN] Redis不可用，限流已禁用: %v", err)
		redisClient = nil
	}

	messageRepo := repository.NewMessageRepository(db.DB)
	taskRepo := repository.NewTaskRepository(db.DB)
	conversationRepo := repository.NewConversationRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)

	hub := broadcast.NewHub()
	detector := extraction.NewDetector(cfg.Extractor.Marker)
	gemini := analyzer.NewGeminiAnalyzer(cfg.Gemini, detector.Marker())

	orchestrator := extraction.NewOrchestrator(detector, gemini, taskRepo, hub)
	queue := extraction.NewQueue(cfg.Extractor.QueueSize, int64(cfg.Extractor.Workers))
	queue.SetProcessor(func(ctx context.Context, msg *domain.Message) {
		// Process logs its own failures; nothing to do with them here
		orchestrator.Process(ctx, msg) //nolint:errcheck
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	queue.Start(ctx)

	messageService := application.NewMessageService(messageRepo, conversationRepo, userRepo, detector, hub, queue)
	taskService := application.NewTaskService(taskRepo, messageRepo, userRepo, conversationRepo, hub)

	router := handler.NewRouter(
		handler.NewMessageHandler(messageService),
		handler.NewTaskHandler(taskService),
		handler.NewWSHandler(hub, messageService),
		redisClient,
		cfg.Auth.JwtSecret,
		cfg.Redis.RateLimitQPS,
	)

	// 可选注册到Consul，注册失败不阻止启动
	var consul *registry.Consul
	if cfg.Consul.Enabled {
		localIP, err := registry.LocalIP()
		if err != nil {
			log.Fatalf("获取本机IP失败: %v", err)
		}
		consul, err = registry.Register(cfg.Consul, registry.Registration{
			Name:       cfg.ServerName,
			Address:    localIP,
			Port:       cfg.Port,
			Tags:       []string{cfg.ServerName, "api", "v1"},
			HealthPath: "/health",
		})
		if err != nil {
			log.Printf("[WARN] Consul注册失败: %v", err)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}
	go func() {
		log.Printf("todo-talk listening on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] server shutdown: %v", err)
	}
	queue.Stop()
	if consul != nil {
		consul.Deregister()
	}
}
