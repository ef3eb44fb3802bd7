// Package config provides server configuration for kvlite.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation of addresses, limits and names
//   - load.go: layered loading through internal/infra/confloader
//
// Keys use koanf tags, so server.redis.addr in YAML is
// KVLITE_SERVER_REDIS_ADDR in the environment.
package config
