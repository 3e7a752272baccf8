// Package config loads costlens settings from .env files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/leofalp/costlens/core/schema"
	"github.com/leofalp/costlens/core/structured"
)

// Supported providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Defaults.
const (
	DefaultModel         = "mistral:7b-instruct-q4_0"
	DefaultTimeout       = 180 * time.Second
	DefaultTemperature   = 0.3
	DefaultMaxTokens     = 3000
	DefaultTopK          = 40
	DefaultTopP          = 0.9
	DefaultRepeatPenalty = 1.1
	DefaultOutputDir     = "outputs"
	DefaultLogFormat     = "compact"
	DefaultLogLevel      = "info"
	historyFile          = "history.db"
)

// Config holds the resolved settings.
type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration

	Temperature   float64
	MaxTokens     int
	TopK          int
	TopP          float64
	RepeatPenalty float64

	MaxAttempts       int
	RetryBackoff      time.Duration
	MinBillingRecords int
	JSONRepair        bool
	BalancedScan      bool

	OutputDir string
	// HistoryPath is empty when attempt history is disabled.
	HistoryPath string

	LogFormat string
	LogLevel  string
}

// Load reads the first .env file found and then the COSTLENS_* variables.
// Variables already set in the environment win over .env values. The result
// is not validated, so callers apply their overrides and then call Validate.
func Load() *Config {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		Provider:          strings.ToLower(getEnvString("COSTLENS_PROVIDER", ProviderOllama)),
		BaseURL:           getEnvString("COSTLENS_BASE_URL", ""),
		APIKey:            getEnvString("COSTLENS_API_KEY", os.Getenv("OPENAI_API_KEY")),
		Model:             getEnvString("COSTLENS_MODEL", DefaultModel),
		Timeout:           getEnvDuration("COSTLENS_TIMEOUT", DefaultTimeout),
		Temperature:       getEnvFloat("COSTLENS_TEMPERATURE", DefaultTemperature),
		MaxTokens:         getEnvInt("COSTLENS_MAX_TOKENS", DefaultMaxTokens),
		TopK:              getEnvInt("COSTLENS_TOP_K", DefaultTopK),
		TopP:              getEnvFloat("COSTLENS_TOP_P", DefaultTopP),
		RepeatPenalty:     getEnvFloat("COSTLENS_REPEAT_PENALTY", DefaultRepeatPenalty),
		MaxAttempts:       getEnvInt("COSTLENS_MAX_ATTEMPTS", structured.DefaultMaxAttempts),
		RetryBackoff:      getEnvDuration("COSTLENS_RETRY_BACKOFF", 0),
		MinBillingRecords: getEnvInt("COSTLENS_MIN_BILLING_RECORDS", schema.MinBillingRecords),
		JSONRepair:        getEnvBool("COSTLENS_JSON_REPAIR", false),
		BalancedScan:      getEnvBool("COSTLENS_BALANCED_SCAN", false),
		OutputDir:         getEnvString("COSTLENS_OUTPUT_DIR", DefaultOutputDir),
		LogFormat:         getEnvString("COSTLENS_LOG_FORMAT", DefaultLogFormat),
		LogLevel:          getEnvString("COSTLENS_LOG_LEVEL", DefaultLogLevel),
	}

	// An explicitly empty COSTLENS_HISTORY_PATH disables history.
	if path, ok := os.LookupEnv("COSTLENS_HISTORY_PATH"); ok {
		cfg.HistoryPath = path
	} else {
		cfg.HistoryPath = filepath.Join(cfg.OutputDir, historyFile)
	}
	return cfg
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported provider %q (want %s or %s)", c.Provider, ProviderOllama, ProviderOpenAI)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("COSTLENS_MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts)
	}
	if c.MinBillingRecords < 1 {
		return fmt.Errorf("COSTLENS_MIN_BILLING_RECORDS must be at least 1, got %d", c.MinBillingRecords)
	}
	if c.Timeout < 0 || c.RetryBackoff < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("COSTLENS_OUTPUT_DIR must not be empty")
	}
	return nil
}

// getEnvPaths returns the .env locations checked by Load, in order.
func getEnvPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "costlens", ".env"))
	}
	return paths
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
