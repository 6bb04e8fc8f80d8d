package config

import (
	"os"
	"strconv"
)

// Config holds everything the server reads from the environment.
// godotenv is loaded in main before this is built.
type Config struct {
	Addr        string
	PostgresDSN string
	RedisAddr   string

	JWTSecret string

	// TelegramToken enables admin alerts; empty disables the notifier.
	TelegramToken  string
	TelegramChatID int64
}

// Load builds a Config from the environment with local-dev defaults.
func Load() Config {
	return Config{
		Addr:           env("ADDR", ":8080"),
		PostgresDSN:    env("POSTGRES_DSN", "host=localhost user=villago password=villago dbname=villagodb port=5432 sslmode=disable"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		JWTSecret:      env("JWT_SECRET", "dev-only-secret-change-me"),
		TelegramToken:  env("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: envInt64("TELEGRAM_ADMIN_CHAT_ID", 0),
	}
}

func env(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
