package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/yndnr/kvlite-go/internal/telemetry/logger"
	"github.com/yndnr/kvlite-go/pkg/cmap"
)

// Verify validates the configuration. All problems are reported together.
func Verify(cfg *ServerConfig) error {
	var errs []error
	errs = append(errs, verifyServer(&cfg.Server)...)
	errs = append(errs, verifyStorage(&cfg.Storage)...)
	errs = append(errs, verifyLog(&cfg.Log)...)
	if cfg.Shutdown.Timeout < 0 {
		errs = append(errs, errors.New("shutdown.timeout must not be negative"))
	}
	return errors.Join(errs...)
}

func verifyServer(s *ServerSection) []error {
	var errs []error
	r := &s.Redis

	if err := verifyAddr(r.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.redis.addr: %w", err))
	}
	if r.IdleTimeout < 0 {
		errs = append(errs, errors.New("server.redis.idle_timeout must not be negative"))
	}
	if r.WriteTimeout < 0 {
		errs = append(errs, errors.New("server.redis.write_timeout must not be negative"))
	}
	if r.AcceptRate < 0 {
		errs = append(errs, errors.New("server.redis.accept_rate must not be negative"))
	}
	if r.AcceptBurst < 0 {
		errs = append(errs, errors.New("server.redis.accept_burst must not be negative"))
	}
	if r.MaxBulkLen < 0 {
		errs = append(errs, errors.New("server.redis.max_bulk_len must not be negative"))
	}
	if r.MaxArrayLen < 0 {
		errs = append(errs, errors.New("server.redis.max_array_len must not be negative"))
	}

	if s.Admin.Enabled {
		if err := verifyAddr(s.Admin.Addr); err != nil {
			errs = append(errs, fmt.Errorf("server.admin.addr: %w", err))
		} else if sameListener(s.Admin.Addr, r.Addr) {
			errs = append(errs, fmt.Errorf("server.admin.addr %q conflicts with server.redis.addr", s.Admin.Addr))
		}
		if s.Admin.RateLimit < 0 {
			errs = append(errs, errors.New("server.admin.rate_limit must not be negative"))
		}
	}
	return errs
}

func verifyStorage(s *StorageSection) []error {
	if s.Shards == 0 || cmap.IsValidShardCount(s.Shards) {
		return nil
	}
	return []error{fmt.Errorf("storage.shards must be 0 or a power of two, got %d", s.Shards)}
}

func verifyLog(l *LogSection) []error {
	var errs []error
	if !logger.IsValidLevel(l.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", l.Level))
	}
	if !logger.IsValidFormat(l.Format) {
		errs = append(errs, fmt.Errorf("log.format %q is not one of json, text", l.Format))
	}
	return errs
}

// verifyAddr checks for a host:port with a numeric port. Port 0 is allowed.
func verifyAddr(addr string) error {
	if addr == "" {
		return errors.New("address is required")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

// sameListener reports whether a and b would bind the same TCP port.
// Port 0 never conflicts.
func sameListener(a, b string) bool {
	ha, pa, err1 := net.SplitHostPort(a)
	hb, pb, err2 := net.SplitHostPort(b)
	if err1 != nil || err2 != nil || pa != pb || pa == "0" {
		return false
	}
	return ha == hb || isWildcard(ha) || isWildcard(hb)
}

func isWildcard(host string) bool {
	return host == "" || host == "0.0.0.0" || host == "::"
}
