package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// Ephemeral facts
	PresenceTTL = 10 * time.Second
	TypingTTL   = 3 * time.Second

	// Sessions
	SessionTTL = 7 * 24 * time.Hour

	// Recent-message cache
	RecentMessagesLimit = 50

	// History query surface
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

// Config містить налаштування процесу, зчитані зі змінних оточення.
type Config struct {
	HTTPAddr    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string

	SessionCookieName string
	// JWTSecret підписує bearer-токени, які зовнішній auth-сервіс видає
	// для WebSocket handshake. Спільний секрет обох сервісів.
	JWTSecret string

	TelegramBotToken string
}

// Load reads the process configuration from the environment, applying
// defaults suitable for local development.
func Load() *Config {
	return &Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		PostgresDSN: getenv("POSTGRES_DSN", fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "user"),
			getenv("DB_PASSWORD", "password"),
			getenv("DB_NAME", "connectodb"),
			getenv("DB_PORT", "5432"),
		)),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		SessionCookieName: getenv("SESSION_COOKIE_NAME", "connecto_session"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
