package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string
	AppName        string
	Port           string
	LogLevel       slog.Level
	BaseURL        string
	PrefsPath      string
	CoverCachePath string
	HTTPTimeout    time.Duration
	Throttle       time.Duration
	ResolveTimeout time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:    getEnv("APP_ENV", "development"),
		AppName:        getEnv("APP_NAME", "legie-metadata"),
		Port:           getEnv("APP_PORT", "8080"),
		BaseURL:        getEnv("CATALOG_BASE_URL", ""),
		PrefsPath:      getEnv("PREFS_PATH", "./prefs.yaml"),
		CoverCachePath: getEnv("COVER_CACHE_PATH", "./data/covers.sqlite"),
		HTTPTimeout:    time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		Throttle:       time.Duration(getEnvAsInt("THROTTLE_MILLIS", 200)) * time.Millisecond,
		ResolveTimeout: time.Duration(getEnvAsInt("RESOLVE_TIMEOUT_SECONDS", 120)) * time.Second,
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = 120 * time.Second
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "INFO"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q, expected DEBUG|INFO|WARN|ERROR", raw)
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
