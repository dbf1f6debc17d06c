// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and FLEXA_ env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RepQueueSize bounds the in-memory rep archive queue.
	RepQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of archive workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the frame deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the session registry.
	ShardCount int `koanf:"shard_count"`

	// HistorySize sets the smoothing window: how many recent frames are
	// averaged before an exercise rule thresholds a measurement.
	HistorySize int `koanf:"history_size"`

	// ArchivePath is the sqlite file holding completed reps and
	// exercise switches.
	ArchivePath string `koanf:"archive_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9080",
		RepQueueSize: 10_000,
		WorkerCount:  runtime.NumCPU(),
		DedupeSize:   50_000,
		ShardCount:   8,
		HistorySize:  10,
		ArchivePath:  "flexa.db",
	}
}
