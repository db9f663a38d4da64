package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"connecto/backend/internal/api/handler"
	"connecto/backend/internal/chathub"
	"connecto/backend/internal/config"
	"connecto/backend/internal/models"
	"connecto/backend/internal/notify"
	"connecto/backend/internal/readstate"
	"connecto/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції (Створення таблиць)
	err = db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomMember{},
		&models.Message{},
		&models.RoomUserState{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Connecto Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	// 2. Диспетчер сповіщень (якщо бот налаштовано)
	var dispatcher notify.Dispatcher
	if cfg.TelegramBotToken != "" {
		td, err := notify.NewTelegramDispatcher(cfg.TelegramBotToken, s)
		if err != nil {
			log.Fatalf("Failed to start Telegram dispatcher: %v", err)
		}
		dispatcher = td
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, offline notifications disabled")
	}
	notifier := notify.NewService(s, dispatcher)

	// 3. Chat Hub
	hub := chathub.NewManagerService(s, notifier)
	hub.StartPubSubListener() // Слухач Redis Pub/Sub
	go hub.Run()              // Головний диспетчер

	// 4. Налаштування Gin та роутингу
	r := gin.Default()
	h := handler.NewHandler(hub, s, readstate.NewService(s), cfg)

	r.GET("/ws", h.ServeWebSocket) // WebSocket Upgrade

	v1 := r.Group("/v1", h.RequireAuth())
	v1.GET("/rooms/:roomId/messages", h.GetRoomMessages)
	v1.GET("/unread", h.GetUnreadSummary)

	// Запуск HTTP-сервера
	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
