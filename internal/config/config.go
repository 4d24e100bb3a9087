package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ListenAddr string

	RedisURL    string
	DatabaseURL string

	WebhookURL string

	ThemeDir string

	BoardPixels int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:  ":8480",
		BoardPixels: 720,
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.WebhookURL = strings.TrimSpace(os.Getenv("WEBHOOK_URL"))
	cfg.ThemeDir = strings.TrimSpace(os.Getenv("THEME_DIR"))

	if v := strings.TrimSpace(os.Getenv("BOARD_PIXELS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 240 && n <= 2048 {
			cfg.BoardPixels = n
		}
	}
	if cfg.ListenAddr == "" {
		return nil, errors.New("LISTEN_ADDR is required")
	}
	// The board must align to 8 square columns.
	if cfg.BoardPixels%8 != 0 {
		cfg.BoardPixels -= cfg.BoardPixels % 8
	}

	return cfg, nil
}
