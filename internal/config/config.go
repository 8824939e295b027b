package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the dashboard.
type Config struct {
	APIBaseURL string
	ListenAddr string
	DemoMode   bool

	// Telegram notifier (optional; both must be set to enable it)
	TelegramBotToken string
	TelegramChatID   int64
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

// NewFromEnv creates a new Config object from environment variables. A .env
// file in the working directory is loaded first when present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:       getEnv("API_BASE_URL", "http://localhost:3000"),
		ListenAddr:       getEnv("LISTEN_ADDR", ":8501"),
		DemoMode:         getBoolEnv("DEMO_MODE", false),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		fmt.Sscanf(chatID, "%d", &cfg.TelegramChatID)
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID environment variable not set")
	}

	return cfg, nil
}
