package update

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/tasks/internal/model"
)

type RuntimeConfig struct {
	DBPath        string       `yaml:"db_path"`
	Memory        bool         `yaml:"memory"`
	LogPath       string       `yaml:"log_path"`
	LogLevel      string       `yaml:"log_level"`
	DefaultFilter model.Filter `yaml:"default_filter"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:        ".tasks.db",
		Memory:        false,
		LogPath:       "tasks.log",
		LogLevel:      "info",
		DefaultFilter: model.FilterAll,
	}
}

// LoadRuntimeConfig layers defaults, the optional YAML file at path, a
// .env file in the working directory, and the process environment.
func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if strings.TrimSpace(path) != "" {
		fromFile, err := RuntimeConfigFromFile(path, cfg)
		if err != nil {
			return RuntimeConfig{}, err
		}
		cfg = fromFile
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return RuntimeConfig{}, fmt.Errorf("load .env: %w", err)
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if !cfg.DefaultFilter.IsValid() {
		return RuntimeConfig{}, fmt.Errorf("%w: %q", model.ErrInvalidFilter, cfg.DefaultFilter)
	}
	return cfg, nil
}

func RuntimeConfigFromFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKS_DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvBool("TASKS_MEMORY"); ok {
		cfg.Memory = v
	}
	if v, ok := getEnvString("TASKS_LOG"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("TASKS_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("TASKS_FILTER"); ok {
		if f, err := model.ParseFilter(v); err == nil {
			cfg.DefaultFilter = f
		}
	}
	return cfg
}

func (c RuntimeConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		if v, err := strconv.ParseBool(raw); err == nil {
			return v, true
		}
		return false, false
	}
}
