package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appEnvKeys = []string{
	"SGPROP_DB_PATH", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "TELEGRAM_API_BASE",
	"SGPROP_SSD_CRON", "SGPROP_PROFIT_CRON", "SGPROP_ALERTS_ENABLED",
}

// clearAppEnv unsets every app variable for the test and restores them after
func clearAppEnv(t *testing.T) {
	t.Helper()
	for _, key := range appEnvKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadAppConfig_Defaults(t *testing.T) {
	clearAppEnv(t)

	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err, "a missing env file is not an error")

	assert.Equal(t, "sgprop.db", cfg.Store.Path)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL)
	assert.Empty(t, cfg.Telegram.BotToken)
	assert.True(t, cfg.Alerts.Enabled)
	assert.Equal(t, "0 9 * * *", cfg.Alerts.SSDCron)
	assert.Equal(t, "0 10 * * *", cfg.Alerts.ProfitCron)
	assert.Equal(t, []int{30, 7, 1}, cfg.Alerts.AlertDays)
}

func TestLoadAppConfig_Environment(t *testing.T) {
	clearAppEnv(t)
	t.Setenv("SGPROP_DB_PATH", "/var/lib/sgprop/portfolio.db")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("SGPROP_ALERTS_ENABLED", "false")
	t.Setenv("SGPROP_SSD_CRON", "30 8 * * 1-5")

	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/sgprop/portfolio.db", cfg.Store.Path)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.False(t, cfg.Alerts.Enabled)
	assert.Equal(t, "30 8 * * 1-5", cfg.Alerts.SSDCron)
}

func TestLoadAppConfig_EnvFile(t *testing.T) {
	clearAppEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "SGPROP_DB_PATH=from-file.db\nTELEGRAM_CHAT_ID=777\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0600))

	cfg, err := LoadAppConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.Store.Path)
	assert.Equal(t, "777", cfg.Telegram.ChatID)
}

func TestLoadAppConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"bad bool", "SGPROP_ALERTS_ENABLED", "sometimes", "SGPROP_ALERTS_ENABLED"},
		{"bad ssd cron", "SGPROP_SSD_CRON", "every day", "SGPROP_SSD_CRON"},
		{"bad profit cron", "SGPROP_PROFIT_CRON", "61 * * * *", "SGPROP_PROFIT_CRON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearAppEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAppConfig_ValidateNil(t *testing.T) {
	var cfg *AppConfig
	assert.EqualError(t, cfg.Validate(), "config is nil")
}
