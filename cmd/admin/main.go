package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"villago/backend/internal/config"
	"villago/backend/internal/moderation"
	"villago/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	storageSvc := storage.NewStorageService(db, rdb)
	mod := moderation.NewService(storageSvc, nil) // No Telegram alerts from the CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <ban|unban|resolve-report> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ban":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin ban <user_id> [duration_in_hours]")
			os.Exit(1)
		}
		userID := os.Args[2]
		hours := 0
		if len(os.Args) > 3 {
			hours, err = strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer.")
				os.Exit(1)
			}
		}
		if err := banUser(storageSvc, userID, hours); err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %s has been banned.\n", userID)

	case "unban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unban <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := mod.Unban(userID); err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %s has been unbanned.\n", userID)

	case "resolve-report":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin resolve-report <report_id>")
			os.Exit(1)
		}
		reportID, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid report ID. Please provide an integer.")
			os.Exit(1)
		}
		if err := mod.ResolveReport(uint(reportID)); err != nil {
			log.Fatalf("Error resolving report: %v", err)
		}
		fmt.Printf("Report %d has been resolved.\n", reportID)

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// banUser applies a manual ban, bypassing the escalation policy.
func banUser(s storage.Storage, userID string, hours int) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.IsBlocked = true
	var ttl time.Duration
	if hours > 0 {
		ttl = time.Duration(hours) * time.Hour
		user.BlockEndTime = time.Now().Add(ttl).Unix()
	}
	user.LastBanDate = time.Now().Unix()
	if err := s.UpdateUser(user); err != nil {
		return err
	}
	return s.SetBanFlag(userID, ttl)
}
