package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	ServiceVersion    string
	DocstoreDriver    string
	PostgresURL       string
	RedisURL          string
	CacheTTL          time.Duration
	KafkaBrokers      []string
	OrderEventsTopic  string
	JWTSecret         string
	JWTTTL            time.Duration
	Timezone          string
	RecentOrdersLimit int
	FetchRetries      uint
	OTLPEndpoint      string
}

// Load reads a .env file when present and then the process environment.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool, error) {
	found := godotenv.Load() == nil

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		ServiceVersion:   getEnv("SERVICE_VERSION", "dev"),
		DocstoreDriver:   strings.ToLower(getEnv("DOCSTORE_DRIVER", "postgres")),
		PostgresURL:      os.Getenv("POSTGRES_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order.completed"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		Timezone:         getEnv("TIMEZONE", "Asia/Jakarta"),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "1m")); err != nil {
		return nil, found, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return nil, found, fmt.Errorf("parse JWT_TTL: %w", err)
	}
	if cfg.RecentOrdersLimit, err = strconv.Atoi(getEnv("RECENT_ORDERS_LIMIT", "5")); err != nil {
		return nil, found, fmt.Errorf("parse RECENT_ORDERS_LIMIT: %w", err)
	}
	retries, err := strconv.ParseUint(getEnv("FETCH_RETRIES", "3"), 10, 32)
	if err != nil {
		return nil, found, fmt.Errorf("parse FETCH_RETRIES: %w", err)
	}
	cfg.FetchRetries = uint(retries)

	return cfg, found, nil
}

// Validate checks the settings cmd/admin needs.
func (c *Config) Validate() error {
	errs := c.validateStore()
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.RecentOrdersLimit < 1 {
		errs = append(errs, errors.New("RECENT_ORDERS_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateWorker checks the settings cmd/worker needs. The worker refreshes
// the cache the admin service reads, so it cannot run on an in-process one.
func (c *Config) ValidateWorker() error {
	errs := c.validateStore()
	if len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	if c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required"))
	}
	if c.RecentOrdersLimit < 1 {
		errs = append(errs, errors.New("RECENT_ORDERS_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateStore() []error {
	var errs []error
	switch c.DocstoreDriver {
	case "postgres", "pgx":
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required for the "+c.DocstoreDriver+" driver"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown DOCSTORE_DRIVER %q", c.DocstoreDriver))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// Location resolves TIMEZONE, the calendar used for the sales report.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
