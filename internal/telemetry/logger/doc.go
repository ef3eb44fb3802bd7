// Package logger provides structured logging for kvlite.
//
// It wraps log/slog:
//
//   - logger.go: handler construction and runtime level changes
//   - context.go: context propagation of the logger and connection id
//   - redact.go: masking of secret-looking attributes and stored values
//
// The level is held in a process-wide slog.LevelVar so configuration reloads
// can change it without rebuilding loggers.
package logger
