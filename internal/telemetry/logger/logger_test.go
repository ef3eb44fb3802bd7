package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { SetLevel("info") })
	return l, &buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default config", cfg: DefaultConfig()},
		{name: "text format", cfg: Config{Level: "debug", Format: "text"}},
		{name: "console format", cfg: Config{Level: "info", Format: "console"}},
		{name: "empty values", cfg: Config{}},
		{name: "unknown level", cfg: Config{Level: "verbose"}, wantErr: true},
		{name: "unknown format", cfg: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
	SetLevel("info")
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBufferLogger(t, "debug", "json")

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	wantLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not JSON: %v", i, err)
		}
		if entry["level"] != wantLevels[i] {
			t.Errorf("line %d level = %v, want %s", i, entry["level"], wantLevels[i])
		}
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.With("remote", "127.0.0.1:5000").Info("accepted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["remote"] != "127.0.0.1:5000" {
		t.Errorf("remote = %v", entry["remote"])
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "text")

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged at info level: %q", buf.String())
	}

	if !SetLevel("debug") {
		t.Fatal("SetLevel(debug) = false")
	}
	if GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q, want debug", GetLevel())
	}
	l.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("debug not logged after SetLevel(debug)")
	}

	if SetLevel("loud") {
		t.Error("SetLevel(loud) = true, want false")
	}
	if GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q after invalid SetLevel, want debug", GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"debug", "debug", true},
		{"INFO", "info", true},
		{"", "info", true},
		{"warning", "warn", true},
		{"error", "error", true},
		{"trace", "info", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsValidLevel(tt.in); got != tt.wantOK {
				t.Errorf("IsValidLevel(%q) = %v, want %v", tt.in, got, tt.wantOK)
			}
			if tt.wantOK {
				SetLevel(tt.in)
				if GetLevel() != tt.want {
					t.Errorf("GetLevel() = %q, want %q", GetLevel(), tt.want)
				}
			}
		})
	}
	SetLevel("info")
}

func TestIsValidFormat(t *testing.T) {
	for _, f := range []string{"", "json", "TEXT", "console"} {
		if !IsValidFormat(f) {
			t.Errorf("IsValidFormat(%q) = false", f)
		}
	}
	if IsValidFormat("yaml") {
		t.Error("IsValidFormat(yaml) = true")
	}
}

func TestDefaultLogger(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}

	l, buf := newBufferLogger(t, "info", "json")
	prev := Default()
	SetDefault(l)
	defer SetDefault(prev)

	Info("via package")
	Warn("warned")
	Error("failed")
	Debug("dropped")

	out := buf.String()
	for _, want := range []string{"via package", "warned", "failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "dropped") {
		t.Error("debug message logged at info level")
	}
}

func TestLogger_WithContext(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.WithContext(context.Background()).Info("ctx message")
	if !strings.Contains(buf.String(), "ctx message") {
		t.Error("WithContext logger produced no output")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	l.With("k", "v").Info("still nothing")
}

func TestLogger_TextFormat(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "text")

	l.Info("hello", "conn_id", "01J")
	out := buf.String()
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "conn_id=01J") {
		t.Errorf("unexpected text output: %q", out)
	}
}
