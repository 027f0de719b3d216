package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	Port         string
	LogLevel     string
	JWTSecret    string

	// Menu generation
	RegenerateLockedPolicy string
	RandomSeed             uint64
	HasRandomSeed          bool
	DefaultCategory        string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:           getEnv("DATABASE_PATH", "data/ukemeny.db"),
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		RegenerateLockedPolicy: getEnv("REGENERATE_LOCKED_POLICY", "deprioritize"),
		DefaultCategory:        getEnv("DEFAULT_CATEGORY", "Diverse"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	switch cfg.RegenerateLockedPolicy {
	case "deprioritize", "exclude":
	default:
		return nil, fmt.Errorf("REGENERATE_LOCKED_POLICY must be 'deprioritize' or 'exclude', got %q", cfg.RegenerateLockedPolicy)
	}

	if seed := os.Getenv("RANDOM_SEED"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("RANDOM_SEED must be an unsigned integer: %w", err)
		}
		cfg.RandomSeed = v
		cfg.HasRandomSeed = true
	}

	if ids := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); ids != "" {
		for _, part := range strings.Split(ids, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS contains invalid id %q", part)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}

	return cfg, nil
}

// RequireTelegram checks the settings the bot cannot start without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
