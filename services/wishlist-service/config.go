package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	aws_pkg "github.com/yashrajoria/marketplace/pkg/aws"
	"github.com/yashrajoria/marketplace/services/wishlist-service/database"
)

// Wishlist storage backends.
const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreDynamo   = "dynamodb"
)

// Config holds all configuration for the wishlist service.
type Config struct {
	Port        string
	Env         string
	Store       string
	JWTSecret   string
	MongoURL    string
	MongoDB     string
	RedisURL    string
	DynamoTable string
	Postgres    database.PostgresConfig
	// SNS topic for wishlist events
	WishlistSNSTopicARN string
	CloudWatchLogs      bool
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8094"),
		Env:         getEnv("APP_ENV", "development"),
		Store:       getEnv("WISHLIST_STORE", StoreRedis),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		MongoURL:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "catalog"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DynamoTable: getEnv("WISHLIST_TABLE", "wishlists"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		WishlistSNSTopicARN: os.Getenv("WISHLIST_SNS_TOPIC_ARN"),
		CloudWatchLogs:      os.Getenv("CLOUDWATCH_LOGS") == "true",
	}

	// Override credentials from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadConfig(ctx); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)

			if v, err := sm.GetSecret(ctx, "wishlist/JWT_SECRET"); err == nil && v != "" {
				cfg.JWTSecret = v
			}
			var m map[string]string
			if err := sm.GetJSONSecret(ctx, "wishlist/DB_CREDENTIALS", &m); err == nil {
				overrideString(&cfg.Postgres.User, m["POSTGRES_USER"])
				overrideString(&cfg.Postgres.Password, m["POSTGRES_PASSWORD"])
				overrideString(&cfg.Postgres.DB, m["POSTGRES_DB"])
				overrideString(&cfg.Postgres.Host, m["POSTGRES_HOST"])
				overrideString(&cfg.Postgres.Port, m["POSTGRES_PORT"])
				overrideString(&cfg.RedisURL, m["REDIS_URL"])
				overrideString(&cfg.MongoURL, m["MONGO_URL"])
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.Store {
	case StoreRedis, StoreDynamo:
	case StorePostgres:
		p := cfg.Postgres
		if p.User == "" || p.Password == "" || p.DB == "" {
			return nil, fmt.Errorf("database config incomplete")
		}
	default:
		return nil, fmt.Errorf("unknown WISHLIST_STORE %q", cfg.Store)
	}
	return cfg, nil
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
