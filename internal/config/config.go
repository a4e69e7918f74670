// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds everything the process needs at boot.
type Config struct {
	RedisAddr     string // bus broker address (host:port)
	RedisPassword string
	QueueName     string // bus queue carrying lifecycle events
	Concurrency   int    // in-flight message window

	DBDriver string // "sqlite" or "pgx"
	DBDSN    string

	QueueRootURL string // root URL of the queue service for definition fetches
	HTTPAddr     string // read API listen address
	LogPath      string // optional log file; empty logs to stderr
}

// Load reads the environment once and applies defaults.
func Load() Config {
	concurrency, _ := strconv.Atoi(getEnv("CONCURRENCY", "10"))
	if concurrency <= 0 {
		concurrency = 10
	}
	return Config{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		QueueName:     getEnv("QUEUE_NAME", "default"),
		Concurrency:   concurrency,
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBDSN:         getEnv("DB_DSN", "file:taskwatch.db"),
		QueueRootURL:  getEnv("QUEUE_ROOT_URL", "https://queue.taskcluster.net"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		LogPath:       getEnv("LOG_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
