// Package config reads the kvlite-cli settings file (~/.kvlite/cli.yaml).
//
// The file supplies defaults for the global flags and named connections:
//
//	default_server: 127.0.0.1:6379
//	default_output: text
//	timeout: 5s
//	connections:
//	  staging:
//	    server: 10.0.0.5:6379
//
// Flags and KVLITE_* environment variables override it.
package config
