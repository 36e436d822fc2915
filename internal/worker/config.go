// Package worker consumes bulk activity-ingestion jobs from Pub/Sub.
package worker

import (
	"os"
	"strconv"
	"time"
)

// Config holds the subscriber settings.
type Config struct {
	ProjectID    string
	Subscription string

	// MaxOutstandingMessages caps unacknowledged messages held by the client.
	MaxOutstandingMessages int

	// MaxExtension is how long the client keeps extending a message's ack deadline.
	MaxExtension time.Duration

	// JobTimeout bounds the processing of a single message.
	JobTimeout time.Duration
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Subscription:           "emission-ingest-worker",
		MaxOutstandingMessages: 10,
		MaxExtension:           10 * time.Minute,
		JobTimeout:             30 * time.Second,
	}
}

// ConfigFromEnv reads PUBSUB_PROJECT_ID, PUBSUB_SUBSCRIPTION,
// PUBSUB_MAX_OUTSTANDING and WORKER_JOB_TIMEOUT over DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ProjectID = os.Getenv("PUBSUB_PROJECT_ID")
	cfg.Subscription = getEnvOrDefault("PUBSUB_SUBSCRIPTION", cfg.Subscription)

	if n, err := strconv.Atoi(os.Getenv("PUBSUB_MAX_OUTSTANDING")); err == nil && n > 0 {
		cfg.MaxOutstandingMessages = n
	}
	if d, err := time.ParseDuration(os.Getenv("WORKER_JOB_TIMEOUT")); err == nil && d > 0 {
		cfg.JobTimeout = d
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
