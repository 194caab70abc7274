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
)

var (
	validBackends       = []string{"memory", "postgres", "sqlite"}
	validExportBackends = []string{"memory", "none", "s3", "sheets"}
	validLogLevels      = []string{"debug", "error", "info", "warn"}
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DataBackend  string
	SQLiteDBPath string
	DatabaseURL  string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Identity
	AuthJWTSecret string
	AuthJWTIssuer string
	AuthHeader    string

	// View cache and limits
	ViewCacheSize      int
	ViewCacheTTL       time.Duration
	RateLimitPerMinute int

	LogLevel string

	// Export worker
	ExportBackend       string
	ExportDebounce      time.Duration
	GoogleSpreadsheetID string
	GoogleSheetName     string
	ExportS3Bucket      string
	ExportS3Region      string
	ExportS3Endpoint    string
	ExportS3PathStyle   bool
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finboard.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finboard.invalidation"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "finboard.export"),

		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		AuthJWTIssuer: getEnv("AUTH_JWT_ISSUER", ""),
		AuthHeader:    getEnv("AUTH_HEADER", "X-User-ID"),

		ViewCacheSize:      getEnvInt("VIEW_CACHE_SIZE", 1000),
		ViewCacheTTL:       getEnvDuration("VIEW_CACHE_TTL", 5*time.Minute),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		ExportBackend:       getEnv("EXPORT_BACKEND", "none"),
		ExportDebounce:      getEnvDuration("EXPORT_DEBOUNCE", 5*time.Second),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Accounts"),
		ExportS3Bucket:      getEnv("EXPORT_S3_BUCKET", ""),
		ExportS3Region:      getEnv("EXPORT_S3_REGION", "us-east-1"),
		ExportS3Endpoint:    getEnv("EXPORT_S3_ENDPOINT", ""),
		ExportS3PathStyle:   getEnvBool("EXPORT_S3_PATH_STYLE", false),
	}

	return cfg
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

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "sqlite":
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
	case "postgres":
		if c.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when using postgres backend")
		}
	}

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

	if c.AuthHeader == "" && c.AuthJWTSecret == "" {
		errors = append(errors, "either AUTH_JWT_SECRET or AUTH_HEADER must be set")
	}
	if c.AuthJWTSecret != "" && len(c.AuthJWTSecret) < 32 {
		errors = append(errors, "AUTH_JWT_SECRET must be at least 32 bytes")
	}

	if c.ViewCacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid view cache size %d: must not be negative", c.ViewCacheSize))
	}
	if c.ViewCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid view cache TTL %v: must be at least 1 second", c.ViewCacheTTL))
	}
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 per minute", c.RateLimitPerMinute))
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	errors = append(errors, c.validateExport()...)

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func (c *Config) validateExport() []string {
	var errors []string
	if !slices.Contains(validExportBackends, c.ExportBackend) {
		return append(errors, fmt.Sprintf("invalid export backend '%s': must be one of %v", c.ExportBackend, validExportBackends))
	}
	switch c.ExportBackend {
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets export")
		}
	case "s3":
		if c.ExportS3Bucket == "" {
			errors = append(errors, "EXPORT_S3_BUCKET is required when using s3 export")
		}
	}
	if c.ExportBackend != "none" && c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required when an export backend is configured")
	}
	if c.ExportDebounce < 0 {
		errors = append(errors, fmt.Sprintf("invalid export debounce %v: must not be negative", c.ExportDebounce))
	}
	return errors
}

// AMQPEnabled reports whether a broker is configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
