// Package main provides the entry point for kvlite-server.
//
// kvlite-server is an in-memory key-value server speaking a subset of the
// Redis protocol (PING, ECHO, SET [PX], GET). An optional admin listener
// serves /health, /ready, /version and /metrics.
//
// Usage:
//
//	kvlite-server [--config kvlite.yaml] [--addr 127.0.0.1:6379]
//	kvlite-server --version
//
// Settings come from defaults, the YAML config file, KVLITE_* environment
// variables and flags, in rising priority. Edits to log.level in the config
// file apply without a restart.
package main
