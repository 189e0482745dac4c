package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"saldo/internal/core"
	"saldo/internal/locale"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	RateLimitRPS    float64
	RateLimitBurst  int

	// Separator cache; a size of 0 disables it
	SeparatorCacheSize int
	SeparatorCacheTTL  time.Duration

	// Settings persistence
	SettingsBackend string
	SQLiteDBPath    string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Defaults used until the user saves settings
	DefaultLocale   string
	DefaultCurrency string
	DisplayMode     string
	SignStyle       string
	MinPrecision    *int
	MaxPrecision    int
	UseGrouping     bool

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		AllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),

		SeparatorCacheSize: getEnvInt("SEPARATOR_CACHE_SIZE", 256),
		SeparatorCacheTTL:  getEnvDuration("SEPARATOR_CACHE_TTL", time.Hour),

		SettingsBackend: getEnv("SETTINGS_BACKEND", "sqlite"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/saldo.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "saldo"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "settings_changed"),

		DefaultLocale:   getEnv("DEFAULT_LOCALE", "en-US"),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", locale.SystemDefaultCurrency)),
		DisplayMode:     getEnv("DISPLAY_MODE", string(core.DisplaySymbol)),
		SignStyle:       getEnv("SIGN_STYLE", string(core.SignStandard)),
		MinPrecision:    getEnvOptionalInt("MIN_PRECISION"),
		MaxPrecision:    getEnvInt("MAX_PRECISION", 2),
		UseGrouping:     getEnvBool("USE_GROUPING", true),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// FormatPreference is the preference the application starts with.
func (c *Config) FormatPreference() core.FormatPreference {
	p := core.DefaultFormatPreference(c.DefaultCurrency)
	p.DisplayMode = core.DisplayMode(c.DisplayMode)
	p.SignStyle = core.SignStyle(c.SignStyle)
	p.MinPrecision = c.MinPrecision
	p.MaxPrecision = c.MaxPrecision
	p.UseGrouping = c.UseGrouping
	return p
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	if c.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %v: must be positive", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit burst %d: must be at least 1", c.RateLimitBurst))
	}

	if c.SeparatorCacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid separator cache size %d: must not be negative", c.SeparatorCacheSize))
	}
	if c.SeparatorCacheSize > 0 && c.SeparatorCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid separator cache TTL %v: must be positive", c.SeparatorCacheTTL))
	}

	// Validate settings backend
	validBackends := []string{"memory", "sqlite"}
	if !slices.Contains(validBackends, c.SettingsBackend) {
		errors = append(errors, fmt.Sprintf("invalid settings backend '%s': must be one of %v", c.SettingsBackend, validBackends))
	}

	if c.SettingsBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// AMQP is optional; when set the URL and names must be usable
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if !locale.Valid(c.DefaultLocale) {
		errors = append(errors, fmt.Sprintf("invalid default locale '%s': must be a BCP-47 tag", c.DefaultLocale))
	}

	if err := c.FormatPreference().Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid format preference: %v", err))
	}

	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvOptionalInt returns nil when key is unset or not a number.
func getEnvOptionalInt(key string) *int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return &i
		}
	}
	return nil
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
