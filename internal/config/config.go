package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	CORS        CORSConfig
	Log         LogConfig
	Rules       RulesConfig
	Portfolio   PortfolioConfig
	PriceSource PriceSourceConfig
	Backup      BackupConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig selects the zap preset and level.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// RulesConfig overrides the fee/tax rule set.
type RulesConfig struct {
	FeeRate      float64
	FeeDiscount  float64
	StockTaxRate float64
}

// PortfolioConfig holds defaults for the user settings.
type PortfolioConfig struct {
	TargetStockFraction float64
	MonthlyDividendGoal float64
}

// PriceSourceConfig configures the quote fallback chain.
type PriceSourceConfig struct {
	Sources []string // strategy names in order, e.g. twse, yahoo
	Proxies []string // URL prefixes tried after the direct call
	Timeout time.Duration
}

// BackupConfig configures scheduled CSV snapshots.
// An empty Dir disables backups; an empty Schedule disables the cron job only.
type BackupConfig struct {
	Dir      string
	Schedule string
	Key      string // fernet key, base64; empty writes plain CSV
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var errs []string
	float := func(key string, def float64) float64 {
		v, err := getEnvFloat(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	timeout, err := time.ParseDuration(getEnv("PRICE_TIMEOUT", "10s"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("PRICE_TIMEOUT: %v", err))
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/etf_portfolio.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Rules: RulesConfig{
			FeeRate:      float("FEE_RATE", 0.001425),
			FeeDiscount:  float("FEE_DISCOUNT", 0.28),
			StockTaxRate: float("STOCK_TAX_RATE", 0.001),
		},
		Portfolio: PortfolioConfig{
			TargetStockFraction: float("TARGET_STOCK_FRACTION", 0.6),
			MonthlyDividendGoal: float("MONTHLY_DIVIDEND_GOAL", 0),
		},
		PriceSource: PriceSourceConfig{
			Sources: getEnvList("PRICE_SOURCES", []string{"twse", "yahoo"}),
			Proxies: getEnvList("PRICE_PROXIES", nil),
			Timeout: timeout,
		},
		Backup: BackupConfig{
			Dir:      getEnv("BACKUP_DIR", ""),
			Schedule: getEnv("BACKUP_SCHEDULE", "0 3 * * *"),
			Key:      getEnv("BACKUP_KEY", ""),
		},
	}

	if f := config.Portfolio.TargetStockFraction; f <= 0 || f >= 1 {
		errs = append(errs, fmt.Sprintf("TARGET_STOCK_FRACTION must be between 0 and 1, got %v", f))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvFloat parses a float environment variable, falling back to the default when unset.
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %q is not a number", key, value)
	}
	return f, nil
}

// getEnvList splits a comma-separated environment variable.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
