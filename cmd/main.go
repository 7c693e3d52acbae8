package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"lovesync/backend/internal/api/handler"
	"lovesync/backend/internal/config"
	"lovesync/backend/internal/models"
	"lovesync/backend/internal/notify"
	"lovesync/backend/internal/room"
	"lovesync/backend/internal/roomhub"
	"lovesync/backend/internal/scheduler"
	"lovesync/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	if err := db.AutoMigrate(&models.RoomRecord{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting LoveSync Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.New()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	rooms := room.NewService(s)
	hub := roomhub.NewManagerService(s)
	sweeper := scheduler.New(rooms, s)

	hub.StartPubSubListener()
	go hub.Run()
	if err := sweeper.Start(cfg.SpaceSweepSpec); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	if cfg.TelegramBotToken != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramBotToken)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		bridge := notify.NewBridge(s, notifier)
		go bridge.Run()
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, notification bridge disabled")
	}

	r := gin.Default()
	h := handler.NewHandler(rooms, hub, s, []byte(cfg.JWTSecret))

	r.GET("/anonid", h.GetAnonID)

	authed := r.Group("/", h.AuthRequired())
	authed.POST("/rooms", h.CreateRoom)
	authed.GET("/rooms/:code", h.GetRoom)
	authed.DELETE("/rooms/:code", h.DeleteRoom)
	authed.POST("/rooms/:code/join", h.JoinRoom)
	authed.GET("/rooms/:code/ws", h.SubscribeRoom)
	authed.POST("/rooms/:code/logs", h.LogMood)
	authed.DELETE("/rooms/:code/logs", h.ClearRoomLogs)
	authed.PUT("/rooms/:code/battery", h.UpdateSocialBattery)
	authed.POST("/rooms/:code/interactions", h.SendInteraction)
	authed.DELETE("/rooms/:code/interactions", h.DismissInteraction)
	authed.POST("/rooms/:code/conversation", h.StartConversation)
	authed.DELETE("/rooms/:code/conversation", h.EndConversation)
	authed.POST("/rooms/:code/conversation/messages", h.SendChatMessage)
	authed.POST("/rooms/:code/space", h.ActivateSpaceMode)
	authed.DELETE("/rooms/:code/space", h.EndSpaceMode)
	authed.POST("/rooms/:code/notify", h.BindNotifications)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
