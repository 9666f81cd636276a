package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Remote backend selection: "rest", "postgres", "sheets", "memory" or "none"
	RemoteBackend string

	// Supabase / PostgREST
	SupabaseURL   string
	SupabaseKey   string
	SupabaseTable string

	// Postgres (direct connection)
	PostgresDSN string

	// Cache backend selection: "sqlite", "file" or "memory"
	CacheBackend string
	SQLiteDBPath string
	CacheDir     string

	// Receipt scanning
	OCREndpoint string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Refresh
	RefreshInterval time.Duration
	RecentLimit     int
}

func Load() *Config {
	cfg := &Config{
		RemoteBackend: getEnv("REMOTE_BACKEND", "rest"),

		SupabaseURL:   getEnv("SUPABASE_URL", ""),
		SupabaseKey:   getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseTable: getEnv("SUPABASE_TABLE", "transactions"),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		CacheBackend: getEnv("CACHE_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pocket.db"),
		CacheDir:     getEnv("CACHE_DIR", "./data/cache"),

		OCREndpoint: getEnv("OCR_ENDPOINT", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pocket"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
		RecentLimit:     getEnvInt("RECENT_LIMIT", 50),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validRemotes := []string{"rest", "postgres", "sheets", "memory", "none"}
	if !contains(validRemotes, c.RemoteBackend) {
		errors = append(errors, fmt.Sprintf("invalid remote backend '%s': must be one of %v", c.RemoteBackend, validRemotes))
	}

	// The rest backend degrades to local-only when credentials are missing,
	// so absent SUPABASE_* vars are not an error. A malformed URL is.
	if c.SupabaseURL != "" {
		if parsed, err := url.Parse(c.SupabaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Supabase URL '%s': %v", c.SupabaseURL, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid Supabase URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
		}
	}

	if c.RemoteBackend == "postgres" && c.PostgresDSN == "" {
		errors = append(errors, "Postgres DSN is required when using postgres backend")
	}

	validCaches := []string{"sqlite", "file", "memory"}
	if !contains(validCaches, c.CacheBackend) {
		errors = append(errors, fmt.Sprintf("invalid cache backend '%s': must be one of %v", c.CacheBackend, validCaches))
	}

	if c.CacheBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite cache")
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

	if c.CacheBackend == "file" && c.CacheDir == "" {
		errors = append(errors, "cache directory cannot be empty when using file cache")
	}

	if c.OCREndpoint != "" {
		if parsed, err := url.Parse(c.OCREndpoint); err != nil {
			errors = append(errors, fmt.Sprintf("invalid OCR endpoint '%s': %v", c.OCREndpoint, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid OCR endpoint scheme '%s': must be 'http' or 'https'", parsed.Scheme))
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RefreshInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 1 second", c.RefreshInterval))
	} else if c.RefreshInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 24 hours", c.RefreshInterval))
	}

	if c.RecentLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid recent limit %d: must be at least 1", c.RecentLimit))
	} else if c.RecentLimit > 1000 {
		errors = append(errors, fmt.Sprintf("invalid recent limit %d: must be at most 1000", c.RecentLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
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
