package config

import "time"

// Defaults used when neither the file nor flags say otherwise.
const (
	DefaultServer  = "127.0.0.1:6379"
	DefaultOutput  = "text"
	DefaultTimeout = 5 * time.Second
)

// CLIConfig is the configuration for kvlite-cli.
type CLIConfig struct {
	DefaultServer string        `yaml:"default_server"`
	DefaultOutput string        `yaml:"default_output"` // text, json, yaml
	Timeout       time.Duration `yaml:"timeout"`

	// HistoryFile stores REPL history. Empty keeps history in memory only.
	HistoryFile string `yaml:"history_file,omitempty"`

	// Connections are named servers selectable with --connection.
	Connections map[string]ConnectionConfig `yaml:"connections,omitempty"`
}

// ConnectionConfig stores saved connection details.
type ConnectionConfig struct {
	Server string `yaml:"server"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: DefaultServer,
		DefaultOutput: DefaultOutput,
		Timeout:       DefaultTimeout,
		Connections:   make(map[string]ConnectionConfig),
	}
}
