// Package buildinfo exposes version information injected at build time:
//
//	go build -ldflags "-X github.com/yndnr/kvlite-go/internal/infra/buildinfo.Version=v0.3.0 \
//	    -X github.com/yndnr/kvlite-go/internal/infra/buildinfo.Commit=abc123"
//
// GoVersion falls back to the running toolchain when not injected.
package buildinfo
