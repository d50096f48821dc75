package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/controlpin/pkg/jwtx"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	QuotaMemory = "memory"
	QuotaRedis  = "redis"
)

type Config struct {
	Issuer      string // Optional: expected issuer of admin tokens (default: controlpin)
	AdminSecret string // Required: HS256 secret for admin tokens, at least 32 bytes

	StoreDriver  string // Optional: sqlite, postgres or memory (default: sqlite)
	DatabaseFile string // Optional: path to SQLite database file (default: ./controlpin.db)
	DatabaseURL  string // Required for postgres: connection URL

	QuotaBackend  string   // Optional: memory or redis (default: memory)
	RedisAddrs    []string // Required for redis: comma separated host:port list
	RedisPassword string   // Optional
	RedisDB       int      // Optional (default: 0)

	Pepper     string // Optional: inline pepper, overrides PepperFile
	PepperFile string // Optional: path to file containing pepper for code hashing (default: ./pepper)

	CodeTTL             time.Duration // Optional: access code lifetime (default: 3m)
	QuotaWindow         time.Duration // Optional: attempt window (default: 5m)
	QuotaMaxAttempts    int           // Optional: attempts per window (default: 5)
	VerifyActions       []string      // Optional: actions that get a verify route (default: verify-pin)
	TrustProxy          bool          // Optional: honour the last X-Forwarded-For hop / X-Real-IP (default: false)
	MaxConcurrentChecks int           // Optional: simultaneous argon2id comparisons (default: 8)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Quota pruning interval (default: 1m)
}

func LoadConfig() Config {
	return Config{
		Issuer:      getEnvOrDefault("PIN_ISSUER", "controlpin"),
		AdminSecret: os.Getenv("PIN_ADMIN_SECRET"),

		StoreDriver:  getEnvOrDefault("PIN_STORE_DRIVER", StoreSQLite),
		DatabaseFile: getEnvOrDefault("PIN_DATABASE_FILE", "controlpin.db"),
		DatabaseURL:  os.Getenv("PIN_DATABASE_URL"),

		QuotaBackend:  getEnvOrDefault("PIN_QUOTA_BACKEND", QuotaMemory),
		RedisAddrs:    getEnvListOrDefault("PIN_REDIS_ADDR", nil),
		RedisPassword: os.Getenv("PIN_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("PIN_REDIS_DB", 0),

		Pepper:     os.Getenv("PIN_PEPPER"),
		PepperFile: getEnvOrDefault("PIN_PEPPER_FILE", "pepper"),

		CodeTTL:             getEnvDurationOrDefault("PIN_CODE_TTL", 3*time.Minute),
		QuotaWindow:         getEnvDurationOrDefault("PIN_QUOTA_WINDOW", 5*time.Minute),
		QuotaMaxAttempts:    getEnvIntOrDefault("PIN_QUOTA_MAX_ATTEMPTS", 5),
		VerifyActions:       getEnvListOrDefault("PIN_VERIFY_ACTIONS", []string{"verify-pin"}),
		TrustProxy:          getEnvBoolOrDefault("PIN_TRUST_PROXY", false),
		MaxConcurrentChecks: getEnvIntOrDefault("PIN_MAX_CONCURRENT_CHECKS", 8),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Minute),
	}
}

// Validate reports the first setting that would stop the service from
// starting.
func (c Config) Validate() error {
	if len(c.AdminSecret) < jwtx.MinSecretLength {
		return fmt.Errorf("PIN_ADMIN_SECRET must be at least %d bytes", jwtx.MinSecretLength)
	}

	switch c.StoreDriver {
	case StoreSQLite, StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("PIN_DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown PIN_STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.QuotaBackend {
	case QuotaMemory:
	case QuotaRedis:
		if len(c.RedisAddrs) == 0 {
			return errors.New("PIN_REDIS_ADDR is required for the redis quota backend")
		}
	default:
		return fmt.Errorf("unknown PIN_QUOTA_BACKEND %q", c.QuotaBackend)
	}

	if c.CodeTTL <= 0 || c.QuotaWindow <= 0 {
		return errors.New("PIN_CODE_TTL and PIN_QUOTA_WINDOW must be positive")
	}
	if c.QuotaMaxAttempts < 1 {
		return errors.New("PIN_QUOTA_MAX_ATTEMPTS must be at least 1")
	}
	if c.MaxConcurrentChecks < 1 {
		return errors.New("PIN_MAX_CONCURRENT_CHECKS must be at least 1")
	}

	seen := make(map[string]bool, len(c.VerifyActions))
	for _, a := range c.VerifyActions {
		if !validAction(a) {
			return fmt.Errorf("invalid action %q in PIN_VERIFY_ACTIONS", a)
		}
		if seen[a] {
			return fmt.Errorf("duplicate action %q in PIN_VERIFY_ACTIONS", a)
		}
		seen[a] = true
	}

	return nil
}

// validAction keeps action identifiers safe to splice into a route pattern.
func validAction(a string) bool {
	if a == "" || len(a) > 64 {
		return false
	}
	for _, r := range a {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping empty items.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
