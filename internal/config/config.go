package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
	Cron     CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds token verification configuration. Tokens are issued by
// the identity provider; only the shared secret lives here.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// PayrollConfig holds pay processing configuration
type PayrollConfig struct {
	Currency         string
	LockTimeout      time.Duration
	AccumulateRetry  int
	RetryBackoffBase time.Duration
}

// CronConfig holds background job configuration
type CronConfig struct {
	ReconcileInterval time.Duration
	ReconcileMonths   int
}

func Load() (*Config, error) {
	// .env is for local development; containers set real env vars.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fieldpay"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Payroll configuration
	lockTimeout, err := time.ParseDuration(getEnv("PAY_LOCK_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAY_LOCK_TIMEOUT: %w", err)
	}
	accumulateRetry, err := strconv.Atoi(getEnv("PAY_ACCUMULATE_RETRY", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAY_ACCUMULATE_RETRY: %w", err)
	}
	retryBackoff, err := time.ParseDuration(getEnv("PAY_RETRY_BACKOFF", "200ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAY_RETRY_BACKOFF: %w", err)
	}

	config.Payroll = PayrollConfig{
		Currency:         getEnv("PAY_CURRENCY", "LKR"),
		LockTimeout:      lockTimeout,
		AccumulateRetry:  accumulateRetry,
		RetryBackoffBase: retryBackoff,
	}

	// Cron configuration
	reconcileInterval, err := time.ParseDuration(getEnv("CRON_RECONCILE_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_RECONCILE_INTERVAL: %w", err)
	}
	reconcileMonths, err := strconv.Atoi(getEnv("CRON_RECONCILE_MONTHS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_RECONCILE_MONTHS: %w", err)
	}

	config.Cron = CronConfig{
		ReconcileInterval: reconcileInterval,
		ReconcileMonths:   reconcileMonths,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Payroll.AccumulateRetry < 1 {
		return fmt.Errorf("PAY_ACCUMULATE_RETRY must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
