package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	TelegramBotToken string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	BadgerDBPath     string        `mapstructure:"BADGERDB_PATH"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	SearchDebounce   time.Duration `mapstructure:"SEARCH_DEBOUNCE"`
	CatalogSeedPath  string        `mapstructure:"CATALOG_SEED_PATH"`
	// AdminUserIDs is a comma-separated list of Telegram user IDs allowed to edit brands.
	AdminUserIDs   string        `mapstructure:"ADMIN_USER_IDS"`
	PageSize       int           `mapstructure:"PAGE_SIZE"`
	CaptureTimeout time.Duration `mapstructure:"CAPTURE_TIMEOUT"`
	GCInterval     time.Duration `mapstructure:"GC_INTERVAL"`
}

var defaults = map[string]any{
	"TELEGRAM_BOT_TOKEN": "",
	"BADGERDB_PATH":      "./badger_data",
	"LOG_LEVEL":          "info",
	"SEARCH_DEBOUNCE":    "300ms",
	"CATALOG_SEED_PATH":  "",
	"ADMIN_USER_IDS":     "",
	"PAGE_SIZE":          5,
	"CAPTURE_TIMEOUT":    "30s",
	"GC_INTERVAL":        "5m",
}

// LoadConfig reads configuration from path/config.yaml and the environment.
// Environment variables override the file.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal only sees keys viper knows about, so register every key.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required values and ranges.
func (c Config) Validate() error {
	if c.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must be positive, got %s", c.SearchDebounce)
	}
	if c.PageSize < 1 || c.PageSize > 50 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 50, got %d", c.PageSize)
	}
	if _, err := c.Admins(); err != nil {
		return err
	}
	return nil
}

// Admins parses AdminUserIDs into a lookup set.
func (c Config) Admins() (map[int64]bool, error) {
	admins := make(map[int64]bool)
	for _, part := range strings.Split(c.AdminUserIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_USER_IDS: invalid user id %q: %w", part, err)
		}
		admins[id] = true
	}
	return admins, nil
}
