package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvOnly(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("SEARCH_DEBOUNCE", "150ms")
	t.Setenv("ADMIN_USER_IDS", "42, 7")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, "./badger_data", cfg.BadgerDBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.CaptureTimeout)

	admins, err := cfg.Admins()
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{42: true, 7: true}, admins)
}

func TestLoadConfig_FileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"TELEGRAM_BOT_TOKEN: from-file\nBADGERDB_PATH: /data/perks\nLOG_LEVEL: debug\nPAGE_SIZE: 8\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.TelegramBotToken)
	assert.Equal(t, "/data/perks", cfg.BadgerDBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
}

func TestConfig_Validate(t *testing.T) {
	base := Config{TelegramBotToken: "t", SearchDebounce: time.Millisecond, PageSize: 5}
	assert.NoError(t, base.Validate())

	bad := base
	bad.PageSize = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.SearchDebounce = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.AdminUserIDs = "12,abc"
	assert.Error(t, bad.Validate())
}
