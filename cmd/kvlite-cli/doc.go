// Package main provides the entry point for kvlite-cli.
//
// Usage:
//
//	kvlite-cli [-s host:port] [-o text|json|yaml] ping
//	kvlite-cli echo VALUE
//	kvlite-cli set [--px MS] KEY VALUE
//	kvlite-cli get KEY
//	kvlite-cli            # interactive mode
package main
