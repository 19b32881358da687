package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port        string
	Env         string // development, staging, production
	CORSOrigins []string

	// Database (optional, last-known-good snapshots)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Upstream market data
	Market MarketConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration.
// An empty URL disables the snapshot store.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// MarketConfig holds upstream provider and fetch settings
type MarketConfig struct {
	Provider            string // yahoo, alphavantage
	YahooBaseURL        string
	AlphaVantageAPIKey  string
	AlphaVantageBaseURL string
	CacheTTL            time.Duration
	HistoryDays         int
	FetchConcurrency    int
	UpstreamRatePerSec  int
	Symbols             []string // empty = default basket
}

// SchedulerConfig holds cron expressions for background jobs
type SchedulerConfig struct {
	WarmupCron string
}

// Supported upstream providers
const (
	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"
)

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port:        getEnv("PORT", "5000"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Upstream
		Market: MarketConfig{
			Provider:            strings.ToLower(getEnv("MARKET_PROVIDER", ProviderYahoo)),
			YahooBaseURL:        getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			AlphaVantageAPIKey:  getEnv("ALPHA_VANTAGE_API_KEY", ""),
			AlphaVantageBaseURL: getEnv("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
			CacheTTL:            getEnvAsDuration("CACHE_TTL", "1m"),
			HistoryDays:         getEnvAsInt("HISTORY_DAYS", 90),
			FetchConcurrency:    getEnvAsInt("FETCH_CONCURRENCY", 5),
			UpstreamRatePerSec:  getEnvAsInt("UPSTREAM_RATE_PER_SEC", 5),
			Symbols:             getEnvAsList("SYMBOLS", nil),
		},

		Scheduler: SchedulerConfig{
			WarmupCron: getEnv("WARMUP_CRON", "0 */1 * * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Market.Provider {
	case ProviderYahoo:
	case ProviderAlphaVantage:
		if c.Market.AlphaVantageAPIKey == "" {
			return fmt.Errorf("ALPHA_VANTAGE_API_KEY is required for provider %s", ProviderAlphaVantage)
		}
	default:
		return fmt.Errorf("MARKET_PROVIDER must be one of: %s, %s", ProviderYahoo, ProviderAlphaVantage)
	}

	if c.Market.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive")
	}
	if c.Market.UpstreamRatePerSec <= 0 {
		return fmt.Errorf("UPSTREAM_RATE_PER_SEC must be positive")
	}
	if c.Market.HistoryDays <= 0 {
		return fmt.Errorf("HISTORY_DAYS must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
