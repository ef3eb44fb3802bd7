package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/yndnr/kvlite-go/internal/infra/buildinfo"
	"github.com/yndnr/kvlite-go/internal/infra/confloader"
	"github.com/yndnr/kvlite-go/internal/infra/shutdown"
	"github.com/yndnr/kvlite-go/internal/server/config"
	"github.com/yndnr/kvlite-go/internal/server/httpserver"
	"github.com/yndnr/kvlite-go/internal/server/redisserver"
	"github.com/yndnr/kvlite-go/internal/storage/memory"
	"github.com/yndnr/kvlite-go/internal/telemetry/logger"
	"github.com/yndnr/kvlite-go/internal/telemetry/metric"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	configFile  string
	showVersion bool
	// overrides maps dotted config keys to flag values set explicitly.
	overrides map[string]any
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("kvlite-server", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{overrides: make(map[string]any)}
	fs.StringVar(&opts.configFile, "config", "", "Path to configuration file")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	addr := fs.String("addr", "", "Redis listener address (server.redis.addr)")
	adminAddr := fs.String("admin-addr", "", "Admin HTTP address (server.admin.addr)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error (log.level)")
	shards := fs.Int("shards", 0, "Store shard count, 0 for a single lock (storage.shards)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			opts.overrides["server.redis.addr"] = *addr
		case "admin-addr":
			opts.overrides["server.admin.addr"] = *adminAddr
		case "log-level":
			opts.overrides["log.level"] = *logLevel
		case "shards":
			opts.overrides["storage.shards"] = *shards
		}
	})
	return opts, nil
}

// run starts kvlite-server and blocks until ctx is done or a shutdown
// signal arrives.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "kvlite-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := config.Load(opts.configFile, opts.overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting kvlite-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", opts.configFile)

	store := newStore(cfg)
	metrics := metric.NewRegistry()
	if err := metrics.Register(metric.NewKeyspaceCollector(store)); err != nil {
		return fmt.Errorf("register keyspace metrics: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(cfg.Shutdown.Timeout)

	redisServer := redisserver.New(config.ToRedisConfig(cfg), store, metrics, log.With("component", "redis"))
	if err := redisServer.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down redis server")
		return redisServer.Shutdown(ctx)
	})

	if cfg.Server.Admin.Enabled {
		if err := startAdmin(cfg, redisServer, metrics, log, shutdownHandler); err != nil {
			shutdownHandler.Shutdown()
			return err
		}
	}

	if opts.configFile != "" {
		if err := watchConfig(opts, log, shutdownHandler); err != nil {
			log.Warn("config hot reload disabled", "error", err)
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// keyspace is what the server needs from a store.
type keyspace interface {
	redisserver.Keyspace
	metric.KeyspaceStats
}

func newStore(cfg *config.ServerConfig) keyspace {
	if cfg.Storage.Shards > 0 {
		return memory.NewSharded(cfg.Storage.Shards)
	}
	return memory.New()
}

func startAdmin(cfg *config.ServerConfig, redisServer *redisserver.Server, metrics *metric.Registry, log logger.Logger, sh *shutdown.Handler) error {
	ln, err := net.Listen("tcp", cfg.Server.Admin.Addr)
	if err != nil {
		return fmt.Errorf("listen admin %s: %w", cfg.Server.Admin.Addr, err)
	}

	adminLog := log.With("component", "admin")
	adminServer := httpserver.New(ln.Addr().String(), httpserver.NewRouter(&httpserver.RouterConfig{
		Ready:     redisServer.Running,
		Metrics:   metrics.Handler(),
		Logger:    adminLog,
		RateLimit: cfg.Server.Admin.RateLimit,
	}))

	go func() {
		adminLog.Info("admin server listening", "address", ln.Addr().String())
		if err := adminServer.Serve(ln); err != nil {
			adminLog.Error("admin server error", "error", err)
		}
	}()

	sh.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down admin server")
		return adminServer.Shutdown(ctx)
	})
	return nil
}

// watchConfig reloads the config file on change and applies log.level.
func watchConfig(opts *options, log logger.Logger, sh *shutdown.Handler) error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return err
	}
	if err := w.Watch(opts.configFile); err != nil {
		w.Stop()
		return err
	}

	w.OnChange(func(path string) {
		cfg, err := config.Load(path, opts.overrides)
		if err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
			return
		}
		if logger.SetLevel(cfg.Log.Level) {
			log.Info("config reloaded", "path", path, "log_level", cfg.Log.Level)
		}
		log.Info("settings other than log.level take effect after restart")
	})
	w.StartAsync()

	sh.OnShutdown(func(context.Context) error {
		return w.Stop()
	})
	return nil
}
