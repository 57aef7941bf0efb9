package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/renameio"
	"github.com/joho/godotenv"
)

// Config is the persistent client configuration
type Config struct {
	Backend BackendConfig `json:"backend"`
	UI      UIConfig      `json:"ui"`
	Log     LogConfig     `json:"log"`

	// dataDir is where config.json, logs, the event log and the search log live.
	dataDir string
}

// BackendConfig says where /find and /chat live
type BackendConfig struct {
	URL string `json:"url"`
	// TimeoutMs of 0 means no timeout: a hung request stays pending.
	TimeoutMs int `json:"timeout_ms"`
}

// UIConfig holds display preferences
type UIConfig struct {
	Locale      string `json:"locale"`        // BCP 47 tag for price formatting
	Currency    string `json:"currency"`      // used when an item carries none
	HintDelayMs int    `json:"hint_delay_ms"` // chat hint delay after a search
	AltScreen   bool   `json:"alt_screen"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `json:"level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL: "http://127.0.0.1:5000",
		},
		UI: UIConfig{
			Locale:      "en-US",
			Currency:    "USD",
			HintDelayMs: 1200,
			AltScreen:   true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DataDir returns $SHOPPER_HOME or ~/.shopper.
func DataDir() string {
	if dir := os.Getenv("SHOPPER_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shopper"
	}
	return filepath.Join(home, ".shopper")
}

// Load reads <DataDir>/config.json (defaults when absent), then a .env file
// in the working directory if present, then environment overrides.
func Load() (*Config, error) {
	return LoadFrom(DataDir())
}

// LoadFrom is Load with an explicit data directory.
func LoadFrom(dataDir string) (*Config, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	// A missing .env is normal; a broken one is not worth failing startup for.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(filepath.Join(dataDir, "config.json"))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config.json: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config.json: %w", err)
	}

	cfg.dataDir = dataDir
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from SHOPPER_* environment variables.
func (c *Config) ApplyEnv() {
	c.Backend.URL = getEnvOrDefault("SHOPPER_BACKEND_URL", c.Backend.URL)
	c.Backend.TimeoutMs = getEnvAsIntOrDefault("SHOPPER_TIMEOUT_MS", c.Backend.TimeoutMs)
	c.UI.Locale = getEnvOrDefault("SHOPPER_LOCALE", c.UI.Locale)
	c.UI.Currency = getEnvOrDefault("SHOPPER_CURRENCY", c.UI.Currency)
	c.UI.HintDelayMs = getEnvAsIntOrDefault("SHOPPER_HINT_DELAY_MS", c.UI.HintDelayMs)
	c.Log.Level = getEnvOrDefault("SHOPPER_LOG_LEVEL", c.Log.Level)
	if v := os.Getenv("SHOPPER_ALT_SCREEN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UI.AltScreen = b
		}
	}
}

// Save writes config.json atomically.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return renameio.WriteFile(filepath.Join(c.Dir(), "config.json"), data, 0600)
}

// Dir returns the data directory the config was loaded from.
func (c *Config) Dir() string {
	if c.dataDir == "" {
		return DataDir()
	}
	return c.dataDir
}

// Timeout converts TimeoutMs; zero means none.
func (c *Config) Timeout() time.Duration {
	if c.Backend.TimeoutMs <= 0 {
		return 0
	}
	return time.Duration(c.Backend.TimeoutMs) * time.Millisecond
}

// HintDelay converts HintDelayMs, falling back to the default.
func (c *Config) HintDelay() time.Duration {
	if c.UI.HintDelayMs <= 0 {
		return time.Duration(DefaultConfig().UI.HintDelayMs) * time.Millisecond
	}
	return time.Duration(c.UI.HintDelayMs) * time.Millisecond
}

// EventLogPath is the JSONL diagnostic event log.
func (c *Config) EventLogPath() string {
	return filepath.Join(c.Dir(), "shopper.events.jsonl")
}

// DBPath is the SQLite search log.
func (c *Config) DBPath() string {
	return filepath.Join(c.Dir(), "shopper.db")
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
