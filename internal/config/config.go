// Package config handles loading and validating configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the arbitrage scanner.
type Config struct {
	// DEX Screener API
	DexScreenerURL string
	SearchTerms    []string
	RequestTimeout time.Duration

	// Pair filtering
	ChainID                string
	AllowedDexes           []string
	MinLiquidityUSD        float64
	DisplayMinLiquidityUSD float64

	// Detection
	SpreadThresholdPct float64
	PriceMaxAge        time.Duration

	// Scheduling
	ScanInterval time.Duration

	// Database
	DBPath string

	// Broadcast
	BroadcastPort int

	// UI
	EnableTUI     bool
	UIRefreshRate time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables with fallback to .env file.
// Priority order: Environment variables > .env file > hardcoded defaults
func Load() (*Config, error) {
	// Attempt to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		// DEX Screener
		DexScreenerURL: getEnv("DEXSCREENER_URL", "https://api.dexscreener.com/latest/dex"),
		SearchTerms:    getEnvList("SEARCH_TERMS", []string{"metis", "netswap", "tethys"}),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,

		// Filtering
		ChainID:                getEnv("CHAIN_ID", "metis"),
		AllowedDexes:           getEnvList("ALLOWED_DEXES", []string{"netswap", "tethys"}),
		MinLiquidityUSD:        getEnvFloat("MIN_LIQUIDITY_USD", 1000),
		DisplayMinLiquidityUSD: getEnvFloat("DISPLAY_MIN_LIQUIDITY_USD", 5000),

		// Detection
		SpreadThresholdPct: getEnvFloat("SPREAD_THRESHOLD_PCT", 0.5),
		PriceMaxAge:        time.Duration(getEnvInt("PRICE_MAX_AGE_SECONDS", 60)) * time.Second,

		// Scheduling
		ScanInterval: time.Duration(getEnvInt("SCAN_INTERVAL_SECONDS", 30)) * time.Second,

		// Database
		DBPath: getEnv("DB_PATH", "./data/opportunities.db"),

		// Broadcast (0 disables the websocket server)
		BroadcastPort: getEnvInt("BROADCAST_PORT", 0),

		// UI
		EnableTUI:     getEnvBool("ENABLE_TUI", true),
		UIRefreshRate: time.Duration(getEnvInt("UI_REFRESH_MS", 500)) * time.Millisecond,

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set and valid.
func (c *Config) Validate() error {
	if c.DexScreenerURL == "" {
		return fmt.Errorf("DEXSCREENER_URL is required")
	}

	if c.ChainID == "" {
		return fmt.Errorf("CHAIN_ID is required")
	}

	if len(c.SearchTerms) == 0 {
		return fmt.Errorf("SEARCH_TERMS must list at least one term")
	}

	if len(c.AllowedDexes) == 0 {
		return fmt.Errorf("ALLOWED_DEXES must list at least one exchange")
	}

	if c.MinLiquidityUSD < 0 {
		return fmt.Errorf("MIN_LIQUIDITY_USD must not be negative")
	}

	if c.SpreadThresholdPct <= 0 {
		return fmt.Errorf("SPREAD_THRESHOLD_PCT must be positive")
	}

	if c.ScanInterval < time.Second {
		return fmt.Errorf("SCAN_INTERVAL_SECONDS must be at least 1")
	}

	if c.BroadcastPort < 0 || c.BroadcastPort > 65535 {
		return fmt.Errorf("BROADCAST_PORT must be between 0 and 65535")
	}

	return nil
}

// DexAllowed reports whether an exchange identifier is on the allow-list.
func (c *Config) DexAllowed(dexID string) bool {
	for _, dex := range c.AllowedDexes {
		if dex == dexID {
			return true
		}
	}
	return false
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList retrieves a comma-separated environment variable or returns a default.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// getEnvInt retrieves an environment variable as an integer or returns a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as a float64 or returns a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as a boolean or returns a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
