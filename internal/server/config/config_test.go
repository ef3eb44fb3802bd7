package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Redis.Addr != DefaultRedisAddr {
		t.Errorf("Redis.Addr = %q, want %q", cfg.Server.Redis.Addr, DefaultRedisAddr)
	}
	if cfg.Server.Redis.IdleTimeout != 0 {
		t.Errorf("Redis.IdleTimeout = %v, want 0 (no idle timeout)", cfg.Server.Redis.IdleTimeout)
	}
	if !cfg.Server.Admin.Enabled || cfg.Server.Admin.Addr != DefaultAdminAddr || cfg.Server.Admin.RateLimit != DefaultAdminRateLimit {
		t.Errorf("Admin = %+v", cfg.Server.Admin)
	}
	if cfg.Storage.Shards != 0 {
		t.Errorf("Storage.Shards = %d, want 0", cfg.Storage.Shards)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Shutdown.Timeout != DefaultShutdownTimeout {
		t.Errorf("Shutdown.Timeout = %v", cfg.Shutdown.Timeout)
	}

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*ServerConfig) {}},
		{name: "port zero", mutate: func(c *ServerConfig) { c.Server.Redis.Addr = "127.0.0.1:0" }},
		{name: "sharded", mutate: func(c *ServerConfig) { c.Storage.Shards = 64 }},
		{name: "admin disabled ignores addr", mutate: func(c *ServerConfig) {
			c.Server.Admin.Enabled = false
			c.Server.Admin.Addr = ""
		}},
		{
			name:    "missing redis addr",
			mutate:  func(c *ServerConfig) { c.Server.Redis.Addr = "" },
			wantErr: "server.redis.addr",
		},
		{
			name:    "redis addr without port",
			mutate:  func(c *ServerConfig) { c.Server.Redis.Addr = "localhost" },
			wantErr: "server.redis.addr",
		},
		{
			name:    "port out of range",
			mutate:  func(c *ServerConfig) { c.Server.Redis.Addr = "127.0.0.1:70000" },
			wantErr: "invalid port",
		},
		{
			name:    "negative idle timeout",
			mutate:  func(c *ServerConfig) { c.Server.Redis.IdleTimeout = -time.Second },
			wantErr: "idle_timeout",
		},
		{
			name:    "negative accept rate",
			mutate:  func(c *ServerConfig) { c.Server.Redis.AcceptRate = -1 },
			wantErr: "accept_rate",
		},
		{
			name:    "negative bulk limit",
			mutate:  func(c *ServerConfig) { c.Server.Redis.MaxBulkLen = -1 },
			wantErr: "max_bulk_len",
		},
		{
			name:    "shards not power of two",
			mutate:  func(c *ServerConfig) { c.Storage.Shards = 12 },
			wantErr: "storage.shards",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *ServerConfig) { c.Log.Level = "chatty" },
			wantErr: "log.level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *ServerConfig) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
		{
			name:    "admin conflicts with redis",
			mutate:  func(c *ServerConfig) { c.Server.Admin.Addr = c.Server.Redis.Addr },
			wantErr: "conflicts",
		},
		{
			name: "admin wildcard conflicts",
			mutate: func(c *ServerConfig) {
				c.Server.Redis.Addr = "127.0.0.1:7000"
				c.Server.Admin.Addr = ":7000"
			},
			wantErr: "conflicts",
		},
		{
			name:    "negative admin rate limit",
			mutate:  func(c *ServerConfig) { c.Server.Admin.RateLimit = -5 },
			wantErr: "rate_limit",
		},
		{
			name:    "negative shutdown timeout",
			mutate:  func(c *ServerConfig) { c.Shutdown.Timeout = -1 },
			wantErr: "shutdown.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Verify() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Storage.Shards = 3
	cfg.Log.Level = "loud"

	err := Verify(cfg)
	if err == nil {
		t.Fatal("Verify() should fail")
	}
	for _, want := range []string{"storage.shards", "log.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvlite.yaml")
	content := `
server:
  redis:
    addr: "0.0.0.0:6380"
    idle_timeout: 5m
  admin:
    enabled: false
storage:
  shards: 32
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("KVLITE_LOG_FORMAT", "text")

	cfg, err := Load(path, map[string]any{"server.redis.max_bulk_len": 4096})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "0.0.0.0:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.IdleTimeout != 5*time.Minute {
		t.Errorf("Redis.IdleTimeout = %v", cfg.Server.Redis.IdleTimeout)
	}
	if cfg.Server.Redis.MaxBulkLen != 4096 {
		t.Errorf("Redis.MaxBulkLen = %d", cfg.Server.Redis.MaxBulkLen)
	}
	if cfg.Server.Admin.Enabled {
		t.Error("Admin.Enabled should be false")
	}
	if cfg.Server.Admin.Addr != DefaultAdminAddr {
		t.Errorf("Admin.Addr = %q, default should survive", cfg.Server.Admin.Addr)
	}
	if cfg.Storage.Shards != 32 {
		t.Errorf("Storage.Shards = %d", cfg.Storage.Shards)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Redis.Addr != DefaultRedisAddr {
		t.Errorf("Redis.Addr = %q", cfg.Server.Redis.Addr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("KVLITE_STORAGE_SHARDS", "7")

	if _, err := Load("", nil); err == nil || !strings.Contains(err.Error(), "storage.shards") {
		t.Errorf("Load() error = %v, want storage.shards error", err)
	}
}

func TestToRedisConfig(t *testing.T) {
	cfg := Default()
	cfg.Server.Redis.WriteTimeout = 2 * time.Second
	cfg.Server.Redis.AcceptRate = 50
	cfg.Server.Redis.AcceptBurst = 10
	cfg.Server.Redis.MaxArrayLen = 128

	rc := ToRedisConfig(cfg)
	if rc.Addr != DefaultRedisAddr || rc.WriteTimeout != 2*time.Second {
		t.Errorf("ToRedisConfig() = %+v", rc)
	}
	if rc.AcceptRate != 50 || rc.AcceptBurst != 10 || rc.MaxArrayLen != 128 {
		t.Errorf("ToRedisConfig() = %+v", rc)
	}
}
