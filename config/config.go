package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultUserAgent = "feedsearch/1.0 (+https://feedsearch.dev)"
	defaultTable     = "feedsearch"
)

type Config struct {
	Search    SearchConfig
	Database  DatabaseConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
}

type SearchConfig struct {
	UserAgent           string
	TableName           string
	DaysCheckedRecently int
	CrawlConcurrency    int
	CrawlRequestTimeout time.Duration
	CrawlTotalTimeout   time.Duration
	CrawlMaxDepth       int
	DirectoryTimeout    time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int
	Timeout  time.Duration
}

type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

type TelemetryConfig struct {
	SentryDSN string
}

func Load() (*Config, error) {
	days, err := getEnvInt("DAYS_CHECKED_RECENTLY", 7)
	if err != nil {
		return nil, fmt.Errorf("invalid DAYS_CHECKED_RECENTLY: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	cfg := &Config{
		Search: SearchConfig{
			UserAgent:           getEnvOrDefault("USER_AGENT", defaultUserAgent),
			TableName:           getEnvOrDefault("KV_TABLE_NAME", defaultTable),
			DaysCheckedRecently: days,
			CrawlConcurrency:    20,
			CrawlRequestTimeout: 4 * time.Second,
			CrawlTotalTimeout:   10 * time.Second,
			CrawlMaxDepth:       5,
			DirectoryTimeout:    4 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			Name:     getEnvOrDefault("DB_NAME", "feedsearch"),
			User:     getEnvOrDefault("DB_USER", "feedsearch"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			MaxConns: maxConns,
			Timeout:  10 * time.Second,
		},
		HTTP: HTTPConfig{
			Addr:              ":" + getEnvOrDefault("SERVER_PORT", "9000"),
			ReadHeaderTimeout: 5 * time.Second,
		},
		Telemetry: TelemetryConfig{
			SentryDSN: getEnvOrDefault("SENTRY_DSN", ""),
		},
	}

	slog.Info("Configuration loaded",
		"table", cfg.Search.TableName,
		"days_checked_recently", cfg.Search.DaysCheckedRecently,
		"db_host", cfg.Database.Host,
		"addr", cfg.HTTP.Addr,
	)

	return cfg, nil
}

// ConnectionString builds the pgx connection string for the KV store.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s pool_max_conns=%d",
		c.Host, c.Port, c.User, c.Password, c.Name, c.MaxConns,
	)
}

// getEnvOrDefault reads an environment variable, honoring _FILE secret
// indirection, falling back to the default when unset.
func getEnvOrDefault(key, defaultValue string) string {
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
