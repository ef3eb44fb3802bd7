package config

import "time"

// ServerConfig is the root configuration for kvlite-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Storage  StorageSection  `koanf:"storage"`
	Log      LogSection      `koanf:"log"`
	Shutdown ShutdownSection `koanf:"shutdown"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	Admin AdminConfig `koanf:"admin"`
}

// RedisConfig configures the protocol listener.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// IdleTimeout closes connections that stay silent this long. 0 disables it.
	IdleTimeout time.Duration `koanf:"idle_timeout"`
	// WriteTimeout bounds writing one reply. 0 disables it.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// AcceptRate is the number of new connections accepted per second.
	// 0 means unlimited.
	AcceptRate  float64 `koanf:"accept_rate"`
	AcceptBurst int     `koanf:"accept_burst"`

	// MaxBulkLen and MaxArrayLen bound declared request lengths. 0 means unlimited.
	MaxBulkLen  int `koanf:"max_bulk_len"`
	MaxArrayLen int `koanf:"max_array_len"`
}

// AdminConfig configures the HTTP endpoint for health, version and metrics.
type AdminConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`

	// RateLimit caps requests per second per client IP. 0 disables it.
	RateLimit int `koanf:"rate_limit"`
}

// StorageSection configures the in-memory store.
type StorageSection struct {
	// Shards selects the sharded store when positive (must be a power of two).
	// 0 uses a single lock over the whole keyspace.
	Shards int `koanf:"shards"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ShutdownSection configures graceful shutdown.
type ShutdownSection struct {
	Timeout time.Duration `koanf:"timeout"`
}
