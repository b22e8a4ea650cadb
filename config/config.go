package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Green API credentials. Missing values are fatal at startup.
	GreenAPIIDInstance    string
	GreenAPITokenInstance string

	// FrontendBaseURL is prepended to event slugs when building the {{link}}
	// template variable.
	FrontendBaseURL string

	GoogleServiceAccountEmail string
	GooglePrivateKey          string

	JobInterval     time.Duration
	OutboxBatchSize int
}

func LoadConfig() (*Config, error) {
	// Optional; real deployments inject env directly.
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	outboxBatch, _ := strconv.Atoi(getEnv("OUTBOX_BATCH_SIZE", "100"))

	jobInterval, err := time.ParseDuration(getEnv("JOB_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOB_INTERVAL: %w", err)
	}

	cfg := &Config{
		ServerPort:                getEnv("SERVER_PORT", "8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		RedisAddr:                 getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:             getEnv("REDIS_PASSWORD", ""),
		RedisDB:                   redisDB,
		GreenAPIIDInstance:        getEnv("GREEN_API_ID_INSTANCE", ""),
		GreenAPITokenInstance:     getEnv("GREEN_API_TOKEN_INSTANCE", ""),
		FrontendBaseURL:           getEnv("FRONTEND_BASE_URL", ""),
		GoogleServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
		GooglePrivateKey:          getEnv("GOOGLE_PRIVATE_KEY", ""),
		JobInterval:               jobInterval,
		OutboxBatchSize:           outboxBatch,
	}

	if cfg.GreenAPIIDInstance == "" || cfg.GreenAPITokenInstance == "" {
		return nil, fmt.Errorf("missing required env vars: GREEN_API_ID_INSTANCE and/or GREEN_API_TOKEN_INSTANCE")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
