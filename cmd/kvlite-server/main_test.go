package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{
		"--config", "kvlite.yaml",
		"--addr", "127.0.0.1:7000",
		"--shards", "16",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	if opts.configFile != "kvlite.yaml" {
		t.Errorf("configFile = %q", opts.configFile)
	}
	want := map[string]any{
		"server.redis.addr": "127.0.0.1:7000",
		"storage.shards":    16,
	}
	if len(opts.overrides) != len(want) {
		t.Fatalf("overrides = %v, want %v", opts.overrides, want)
	}
	for k, v := range want {
		if opts.overrides[k] != v {
			t.Errorf("overrides[%q] = %v, want %v", k, opts.overrides[k], v)
		}
	}
}

func TestParseFlags_Errors(t *testing.T) {
	if _, err := parseFlags([]string{"--nope"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := parseFlags([]string{"extra"}, io.Discard); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "kvlite-server ") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	err := run(context.Background(), []string{"--shards", "12"}, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "storage.shards") {
		t.Errorf("run() error = %v, want storage.shards complaint", err)
	}
}

func TestRun_StartsAndStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvlite.yaml")
	content := `
server:
  redis:
    addr: "127.0.0.1:0"
  admin:
    addr: "127.0.0.1:0"
storage:
  shards: 4
log:
  format: text
shutdown:
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := &lockedBuffer{}
	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, []string{"--config", path}, out) }()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "server started") {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("server did not start, log:\n%s", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancel")
	}

	log := out.String()
	for _, want := range []string{"redis server listening", "shutting down redis server", "shutting down admin server", "server stopped gracefully"} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q", want)
		}
	}
}
