package config

import "github.com/yndnr/kvlite-go/internal/server/redisserver"

// ToRedisConfig maps the server.redis section onto the listener configuration.
func ToRedisConfig(cfg *ServerConfig) *redisserver.Config {
	r := cfg.Server.Redis
	return &redisserver.Config{
		Addr:         r.Addr,
		IdleTimeout:  r.IdleTimeout,
		WriteTimeout: r.WriteTimeout,
		AcceptRate:   r.AcceptRate,
		AcceptBurst:  r.AcceptBurst,
		MaxBulkLen:   r.MaxBulkLen,
		MaxArrayLen:  r.MaxArrayLen,
	}
}
