package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseFile        string        // Path to the SQLite database file (default: ./student.db)
	PepperFile          string        // Path to the password pepper file, created on first run (default: ./pepper)
	ListenAddr          string        // HTTP listen address (default: 127.0.0.1:8080)
	Env                 string        // Environment (dev, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: text)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	SecureCookies       bool          // Mark cookies Secure; only useful behind TLS (default: false)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile:        getEnvOrDefault("GRADEBOOK_DATABASE_FILE", "student.db"),
		PepperFile:          getEnvOrDefault("GRADEBOOK_PEPPER_FILE", "pepper"),
		ListenAddr:          getEnvOrDefault("GRADEBOOK_LISTEN_ADDR", "127.0.0.1:8080"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "text"),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		SecureCookies:       getEnvBoolOrDefault("GRADEBOOK_SECURE_COOKIES", false),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
