package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr = "127.0.0.1:6379"
	DefaultAdminAddr = "127.0.0.1:5080"

	DefaultAdminRateLimit = 100

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultShutdownTimeout = 30 * time.Second
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr: DefaultRedisAddr,
			},
			Admin: AdminConfig{
				Enabled:   true,
				Addr:      DefaultAdminAddr,
				RateLimit: DefaultAdminRateLimit,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Shutdown: ShutdownSection{
			Timeout: DefaultShutdownTimeout,
		},
	}
}
