package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"restaurant-service/database"
)

// Config holds all configuration for the restaurant service.
type Config struct {
	Port   string
	AppEnv string

	DBDriver     string // postgres or sqlite
	Postgres     database.PostgresConfig
	SQLitePath   string
	DBSecretName string // Secrets Manager secret overriding Postgres credentials

	RedisURL         string
	IdentityCacheTTL time.Duration

	OrderEventsTopicARN string
	KafkaBrokers        []string
	KafkaOrderTopic     string

	RateLimitRPS   float64
	RateLimitBurst int

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// secretFetcher decodes a JSON secret into v.
type secretFetcher func(ctx context.Context, name string, v any) error

// LoadConfig reads configuration from a .env file (when present) and the
// environment, then applies the optional Secrets Manager override.
func LoadConfig(ctx context.Context, fetch secretFetcher) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := configFromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.DBSecretName != "" && fetch != nil {
		if err := applyDBSecret(ctx, cfg, fetch); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configFromEnv() (*Config, error) {
	var errs []string
	duration := func(key, fallback string) time.Duration {
		d, err := time.ParseDuration(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return d
	}
	integer := func(key, fallback string) int {
		n, err := strconv.Atoi(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return n
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("RATE_LIMIT_RPS: %v", err))
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		SQLitePath:   getEnv("SQLITE_PATH", "restaurant.db"),
		DBSecretName: os.Getenv("DB_SECRET_NAME"),
		Postgres: database.PostgresConfig{
			Host:            os.Getenv("POSTGRES_HOST"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            os.Getenv("POSTGRES_USER"),
			Password:        os.Getenv("POSTGRES_PASSWORD"),
			Name:            os.Getenv("POSTGRES_DB"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone:        getEnv("POSTGRES_TIMEZONE", "UTC"),
			MaxOpenConns:    integer("POSTGRES_MAX_OPEN_CONNS", "25"),
			MaxIdleConns:    integer("POSTGRES_MAX_IDLE_CONNS", "5"),
			ConnMaxLifetime: duration("POSTGRES_CONN_MAX_LIFETIME", "30m"),
			ConnectAttempts: integer("POSTGRES_CONNECT_ATTEMPTS", "10"),
		},
		RedisURL:            os.Getenv("REDIS_URL"),
		IdentityCacheTTL:    duration("IDENTITY_CACHE_TTL", "1h"),
		OrderEventsTopicARN: os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:     getEnv("KAFKA_ORDER_TOPIC", "restaurant.orders"),
		RateLimitRPS:        rps,
		RateLimitBurst:      integer("RATE_LIMIT_BURST", "40"),
		CloudWatchEnabled:   getEnv("CLOUDWATCH_ENABLED", "false") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Restaurant"),
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", "/restaurant/services"),
		RequestTimeout:      duration("REQUEST_TIMEOUT", "30s"),
		ShutdownTimeout:     duration("SHUTDOWN_TIMEOUT", "10s"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// applyDBSecret overrides the Postgres settings with any non-empty value found
// in the JSON secret.
func applyDBSecret(ctx context.Context, cfg *Config, fetch secretFetcher) error {
	var m map[string]string
	if err := fetch(ctx, cfg.DBSecretName, &m); err != nil {
		return fmt.Errorf("failed to load database secret %q: %w", cfg.DBSecretName, err)
	}

	override := func(dst *string, key string) {
		if v, ok := m[key]; ok && v != "" {
			*dst = v
		}
	}
	override(&cfg.Postgres.User, "POSTGRES_USER")
	override(&cfg.Postgres.Password, "POSTGRES_PASSWORD")
	override(&cfg.Postgres.Name, "POSTGRES_DB")
	override(&cfg.Postgres.Host, "POSTGRES_HOST")
	override(&cfg.Postgres.Port, "POSTGRES_PORT")
	return nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres":
		p := c.Postgres
		if p.User == "" || p.Password == "" || p.Name == "" || p.Host == "" {
			return fmt.Errorf("database config incomplete")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaOrderTopic == "" {
		return fmt.Errorf("KAFKA_ORDER_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
