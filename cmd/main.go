package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"villago/backend/internal/api/handler"
	"villago/backend/internal/chathub"
	"villago/backend/internal/config"
	"villago/backend/internal/models"
	"villago/backend/internal/moderation"
	"villago/backend/internal/notify"
	"villago/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Villago Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	// Realtime core: presence registry, lifecycle manager and broadcaster all
	// hang off the gateway.
	gateway := chathub.NewGateway(s)

	// Cross-instance fan-out over Redis.
	bridge := chathub.NewRedisBridge(s, gateway)
	gateway.SetBridge(bridge)
	go bridge.Run()

	var notifier moderation.Notifier
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("Warning: Telegram notifier disabled: %v", err)
		} else {
			notifier = tg
		}
	}
	mod := moderation.NewService(s, notifier)

	r := gin.Default()
	h := handler.NewHandler(gateway, s, mod, cfg.JWTSecret)

	r.POST("/auth/guest", h.GuestLogin)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api")
	{
		api.GET("/rooms", h.ListRooms)
		api.POST("/rooms", h.CreateRoom)
		api.GET("/rooms/:id/messages", h.ListMessages)
		api.POST("/rooms/:id/messages", h.PostMessage)
		api.POST("/reports", h.CreateReport)
	}

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
