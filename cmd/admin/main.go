package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"lovesync/backend/internal/config"
	"lovesync/backend/internal/models"
	"lovesync/backend/internal/room"
	"lovesync/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.New()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	storageSvc := storage.NewStorageService(db, rdb)
	rooms := room.NewService(storageSvc)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: list | inspect <code> | clear-logs <code> | delete <code> | purge-stale <days>")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "list":
		codes, err := storageSvc.ListRoomCodes()
		if err != nil {
			log.Fatalf("Error listing rooms: %v", err)
		}
		for _, code := range codes {
			fmt.Println(code)
		}
	case "inspect":
		code := requireCode()
		data, err := storageSvc.GetRoom(code)
		if err != nil {
			log.Fatalf("Error loading room: %v", err)
		}
		if data == nil {
			log.Fatalf("Room %s not found", code)
		}
		raw, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(raw))
	case "clear-logs":
		code := requireCode()
		if err := rooms.ClearRoomLogs(code); err != nil {
			log.Fatalf("Error clearing room logs: %v", err)
		}
		fmt.Printf("Room %s has been reset.\n", code)
	case "delete":
		code := requireCode()
		if err := rooms.DeleteRoom(code); err != nil {
			log.Fatalf("Error deleting room: %v", err)
		}
		fmt.Printf("Room %s has been deleted.\n", code)
	case "purge-stale":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin purge-stale <days>")
			os.Exit(1)
		}
		days, err := strconv.Atoi(os.Args[2])
		if err != nil || days <= 0 {
			fmt.Println("Invalid day count. Please provide a positive integer.")
			os.Exit(1)
		}
		purged, err := purgeStale(db, rooms, days)
		if err != nil {
			log.Fatalf("Error purging stale rooms: %v", err)
		}
		fmt.Printf("Purged %d stale rooms.\n", purged)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func requireCode() string {
	if len(os.Args) != 3 {
		fmt.Printf("Usage: admin %s <code>\n", os.Args[1])
		os.Exit(1)
	}
	return room.NormalizeCode(os.Args[2])
}

// purgeStale removes rooms whose document has not been written for the given
// number of days.
func purgeStale(db *gorm.DB, rooms *room.Service, days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var codes []string
	err := db.Model(&models.RoomRecord{}).
		Where("updated_at < ?", cutoff).
		Pluck("code", &codes).Error
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, code := range codes {
		if err := rooms.DeleteRoom(code); err != nil {
			log.Printf("ERROR: Failed to delete stale room %s: %v", code, err)
			continue
		}
		purged++
	}
	return purged, nil
}
