// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the collector service.
type Config struct {
	Port                 string
	BotToken             string
	RedisURL             string // optional; empty falls back to in-memory sessions
	HHBaseURL            string
	AreaID               string // hh.ru area code, "113" is all of Russia
	ReportDir            string
	ReportMaxAgeHours    int // how long report files may stay on disk
	CleanupIntervalHours int // how often the janitor sweeps ReportDir
	WindowDays           int // search window length
	ChunkDays            int // window subdivision for provider queries
	LogLevel             string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	reportMaxAge, err := positiveInt("REPORT_MAX_AGE_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cleanupInterval, err := positiveInt("CLEANUP_INTERVAL_HOURS", 6)
	if err != nil {
		return nil, err
	}
	windowDays, err := positiveInt("SEARCH_WINDOW_DAYS", 30)
	if err != nil {
		return nil, err
	}
	chunkDays, err := positiveInt("SEARCH_CHUNK_DAYS", 7)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                 stringOr("COLLECTOR_PORT", "8083"),
		BotToken:             token,
		RedisURL:             os.Getenv("REDIS_URL"),
		HHBaseURL:            stringOr("HH_BASE_URL", "https://api.hh.ru/vacancies"),
		AreaID:               stringOr("HH_AREA", "113"),
		ReportDir:            stringOr("REPORT_DIR", "reports"),
		ReportMaxAgeHours:    reportMaxAge,
		CleanupIntervalHours: cleanupInterval,
		WindowDays:           windowDays,
		ChunkDays:            chunkDays,
		LogLevel:             stringOr("LOG_LEVEL", "info"),
	}, nil
}

func stringOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func positiveInt(name string, fallback int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return v, nil
}
