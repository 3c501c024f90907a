package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	aws_pkg "github.com/yashrajoria/marketplace/pkg/aws"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Port     string
	Env      string
	MongoURL string
	MongoDB  string
	RedisURL string
	CacheTTL time.Duration
	// SQS queue carrying product and category change events
	CatalogEventsQueueURL string
	CloudWatchLogs        bool
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "10m"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                  getEnv("PORT", "8093"),
		Env:                   getEnv("APP_ENV", "development"),
		MongoURL:              getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:               getEnv("MONGO_DB", "catalog"),
		RedisURL:              os.Getenv("REDIS_URL"),
		CacheTTL:              ttl,
		CatalogEventsQueueURL: os.Getenv("CATALOG_EVENTS_QUEUE_URL"),
		CloudWatchLogs:        getEnvBool("CLOUDWATCH_LOGS", false),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadConfig(ctx); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)
			var m map[string]string
			if err := sm.GetJSONSecret(ctx, "catalog/CONNECTIONS", &m); err == nil {
				if v := m["MONGO_URL"]; v != "" {
					cfg.MongoURL = v
				}
				if v := m["REDIS_URL"]; v != "" {
					cfg.RedisURL = v
				}
			}
		}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
