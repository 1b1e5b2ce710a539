package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	UploadDir string

	JWTSecret string
	JWTTTL    time.Duration

	// Cron spec for the nightly recompute of derived cancellation dates.
	RecomputeSchedule string

	// Default lookahead window for the expiring-contracts report.
	ExpiringWindowDays int
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8091"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		RecomputeSchedule: getEnv("RECOMPUTE_SCHEDULE", "0 3 * * *"),
	}

	ttlHours := 24
	if ttlStr := os.Getenv("JWT_TTL_HOURS"); ttlStr != "" {
		hours, err := strconv.Atoi(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL_HOURS: %w", err)
		}
		ttlHours = hours
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	days := 90
	if daysStr := os.Getenv("EXPIRING_WINDOW_DAYS"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid EXPIRING_WINDOW_DAYS: %q", daysStr)
		}
		days = parsed
	}
	cfg.ExpiringWindowDays = days

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
