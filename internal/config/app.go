package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// AppConfig is the process-level configuration read from the environment.
type AppConfig struct {
	Store    StoreConfig
	Telegram TelegramConfig
	Alerts   AlertsConfig
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string
}

// TelegramConfig holds Bot API credentials. Settings stored in the database
// take precedence when present.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string
}

// AlertsConfig holds the alert job schedules.
type AlertsConfig struct {
	Enabled    bool
	SSDCron    string
	ProfitCron string
	// AlertDays are the days-before-SSD-free on which a countdown alert fires
	AlertDays []int
}

// LoadAppConfig reads environment variables (optionally from the provided
// file) and materializes an AppConfig.
func LoadAppConfig(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// a missing .env is fine when everything comes from the environment
		_ = godotenv.Load()
	}

	enabled, err := strconv.ParseBool(getenvWithDefault("SGPROP_ALERTS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("SGPROP_ALERTS_ENABLED: %w", err)
	}

	cfg := &AppConfig{
		Store: StoreConfig{
			Path: getenvWithDefault("SGPROP_DB_PATH", "sgprop.db"),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
			BaseURL:  getenvWithDefault("TELEGRAM_API_BASE", "https://api.telegram.org"),
		},
		Alerts: AlertsConfig{
			Enabled:    enabled,
			SSDCron:    getenvWithDefault("SGPROP_SSD_CRON", "0 9 * * *"),
			ProfitCron: getenvWithDefault("SGPROP_PROFIT_CRON", "0 10 * * *"),
			AlertDays:  []int{30, 7, 1},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated and the
// schedules parse.
func (c *AppConfig) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Store.Path == "" {
		return errors.New("SGPROP_DB_PATH must not be empty")
	}
	if c.Telegram.BaseURL == "" {
		return errors.New("TELEGRAM_API_BASE must not be empty")
	}
	if _, err := cron.ParseStandard(c.Alerts.SSDCron); err != nil {
		return fmt.Errorf("SGPROP_SSD_CRON %q: %w", c.Alerts.SSDCron, err)
	}
	if _, err := cron.ParseStandard(c.Alerts.ProfitCron); err != nil {
		return fmt.Errorf("SGPROP_PROFIT_CRON %q: %w", c.Alerts.ProfitCron, err)
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
