package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// Ledger backends.
const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Ledger   LedgerConfig
	Prices   PriceConfig
	Report   ReportConfig
	CORS     CORSConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// LedgerConfig selects and locates the ledger store
type LedgerConfig struct {
	Backend string
	DBPath  string
	CSVPath string
}

// PriceConfig bounds how the price source is queried
type PriceConfig struct {
	Timeout       time.Duration
	Retries       int
	RatePerMinute int
}

// ReportConfig holds aggregation settings
type ReportConfig struct {
	ReferenceCurrency model.Currency
	Workers           int
	Schedule          string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("PRICE_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_TIMEOUT: %w", err)
	}
	retries, err := getEnvInt("PRICE_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	rate, err := getEnvInt("PRICE_RATE_PER_MINUTE", 120)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("AGGREGATE_WORKERS", 4)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Ledger: LedgerConfig{
			Backend: strings.ToLower(getEnv("LEDGER_BACKEND", BackendSQLite)),
			DBPath:  getEnv("DB_PATH", "./data/profit_tracker.db"),
			CSVPath: getEnv("LEDGER_CSV_PATH", "./data/save.csv"),
		},
		Prices: PriceConfig{
			Timeout:       timeout,
			Retries:       retries,
			RatePerMinute: rate,
		},
		Report: ReportConfig{
			ReferenceCurrency: model.Currency(strings.ToUpper(getEnv("REFERENCE_CURRENCY", string(model.CAD)))),
			Workers:           workers,
			Schedule:          os.Getenv("REPORT_SCHEDULE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	if _, ok := os.LookupEnv("REPORT_SCHEDULE"); !ok {
		config.Report.Schedule = "@every 1h"
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Ledger.Backend != BackendSQLite && c.Ledger.Backend != BackendCSV {
		return fmt.Errorf("invalid LEDGER_BACKEND %q: must be %s or %s", c.Ledger.Backend, BackendSQLite, BackendCSV)
	}
	if !model.ValidCurrency[c.Report.ReferenceCurrency] {
		return fmt.Errorf("invalid REFERENCE_CURRENCY %q", c.Report.ReferenceCurrency)
	}
	if c.Prices.Timeout <= 0 {
		return fmt.Errorf("PRICE_TIMEOUT must be positive")
	}
	if c.Prices.Retries < 0 {
		return fmt.Errorf("PRICE_RETRIES cannot be negative")
	}
	if c.Prices.RatePerMinute <= 0 {
		return fmt.Errorf("PRICE_RATE_PER_MINUTE must be positive")
	}
	if c.Report.Workers <= 0 {
		return fmt.Errorf("AGGREGATE_WORKERS must be positive")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
