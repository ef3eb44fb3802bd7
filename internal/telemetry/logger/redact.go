package logger

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Key fragments whose values are never logged.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
}

// valueKey is the attribute key under which stored values are logged.
const valueKey = "value"

// maxValuePreview bounds how much of a stored value reaches the log.
const maxValuePreview = 16

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if s == "" {
			return a
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if a.Key == valueKey {
			return slog.String(a.Key, Preview(s))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// Preview shortens s to a fixed-size prefix plus its total length.
// The prefix never ends inside a multi-byte rune.
func Preview(s string) string {
	if len(s) <= maxValuePreview {
		return s
	}
	cut := maxValuePreview
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
