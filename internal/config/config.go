package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Storage
	DBPath string

	// EPG output
	OutputPath string

	// Status feed
	StatusHost string
	StatusPort int

	// Generation
	DaysAhead          int
	GenerationDeadline time.Duration
	GenerateInterval   time.Duration
	TeamWorkers        int

	// Soccer cache
	SoccerRefreshWorkers int
	SoccerStaleAfter     time.Duration

	// Tier-P fingerprints
	FingerprintPurgeRuns int

	// Sports metadata (durations + national networks)
	SportsConfigPath string

	// Timezone seed; the settings row takes precedence at runtime.
	Timezone string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath:     envStr("TEAMARR_DB_PATH", "data/teamarr.db"),
		OutputPath: envStr("TEAMARR_OUTPUT_PATH", "data/teamarr.xml"),

		StatusHost: envStr("TEAMARR_STATUS_HOST", "0.0.0.0"),
		StatusPort: envInt("TEAMARR_STATUS_PORT", 9195),

		DaysAhead:          envInt("TEAMARR_DAYS_AHEAD", 7),
		GenerationDeadline: time.Duration(envInt("TEAMARR_GENERATION_DEADLINE_MIN", 10)) * time.Minute,
		GenerateInterval:   time.Duration(envInt("TEAMARR_GENERATE_INTERVAL_HOURS", 6)) * time.Hour,
		TeamWorkers:        envInt("TEAMARR_TEAM_WORKERS", 8),

		SoccerRefreshWorkers: envInt("TEAMARR_SOCCER_REFRESH_WORKERS", 50),
		SoccerStaleAfter:     time.Duration(envInt("TEAMARR_SOCCER_STALE_DAYS", 7)) * 24 * time.Hour,

		FingerprintPurgeRuns: envInt("TEAMARR_FINGERPRINT_PURGE_RUNS", 5),

		SportsConfigPath: envStr("TEAMARR_SPORTS_CONFIG", "internal/config/sports.yaml"),

		// TZ mirrors the container convention; the settings row wins once set.
		Timezone: envStr("TZ", "UTC"),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
