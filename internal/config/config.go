package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the planner.
type Config struct {
	DatabasePath   string
	AttachmentsDir string
	SummaryTime    string // HH:MM local time; empty disables the daily digest
	TelegramToken  string
	TelegramChatID int64
}

// Load reads configuration from the environment (and an optional .env
// file) with sane defaults. Only malformed values error; everything
// Telegram-related is optional.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabasePath:   strings.TrimSpace(os.Getenv("PLANNER_DB_PATH")),
		AttachmentsDir: strings.TrimSpace(os.Getenv("PLANNER_ATTACHMENTS_DIR")),
		SummaryTime:    strings.TrimSpace(os.Getenv("PLANNER_SUMMARY_TIME")),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "todo_planner.db"
	}
	if cfg.AttachmentsDir == "" {
		cfg.AttachmentsDir = "attachments"
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q", raw)
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}
