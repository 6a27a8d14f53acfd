package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	JWTSecret     string
	JWTTTLMinutes int

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryUploadFolder string

	// LoanPeriod is how long a borrowed book may be kept before the
	// overdue sweep flags it.
	LoanPeriod time.Duration
	// NotificationRetention is how long read notifications are kept
	// before the retention sweep hard-deletes them.
	NotificationRetention time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		JWTTTLMinutes: 60,

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "smartlib_certificates"),
	}

	var err error
	cfg.LoanPeriod, err = parseDuration(getEnv("LOAN_PERIOD", "336h")) // 14 days
	if err != nil {
		return nil, fmt.Errorf("invalid LOAN_PERIOD: %w", err)
	}
	cfg.NotificationRetention, err = parseDuration(getEnv("NOTIFICATION_RETENTION", "2160h")) // 90 days
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_RETENTION: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
