// Package config loads runtime settings from an optional YAML file and
// XPDASH_* environment variables; environment always wins over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	DataDir              string `yaml:"data_dir" env:"XPDASH_DATA_DIR"`
	Backend              string `yaml:"backend" env:"XPDASH_BACKEND" env-default:"files"`
	UndoWindowSeconds    int    `yaml:"undo_window_seconds" env:"XPDASH_UNDO_WINDOW_SECONDS" env-default:"5"`
	AutosaveMinutes      int    `yaml:"autosave_minutes" env:"XPDASH_AUTOSAVE_MINUTES" env-default:"5"`
	DesktopNotifications bool   `yaml:"desktop_notifications" env:"XPDASH_DESKTOP_NOTIFICATIONS" env-default:"true"`
	SchedulerBuffer      int    `yaml:"scheduler_buffer" env:"XPDASH_SCHEDULER_BUFFER" env-default:"64"`
	LogLevel             string `yaml:"log_level" env:"XPDASH_LOG_LEVEL" env-default:"INFO"`
}

// Load reads configPath when given, falling back to environment only when the
// file does not exist. An empty configPath skips the file entirely.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: read env: %w", err)
		}
		return cfg.withDefaults()
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("config: read %q: %w", configPath, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: read env: %w", err)
		}
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() (Config, error) {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config: resolve home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, ".xpdash")
	}
	if c.UndoWindowSeconds <= 0 {
		c.UndoWindowSeconds = 5
	}
	if c.AutosaveMinutes <= 0 {
		c.AutosaveMinutes = 5
	}
	if c.SchedulerBuffer <= 0 {
		c.SchedulerBuffer = 64
	}
	return c, nil
}
