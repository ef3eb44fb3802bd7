// Package confloader loads layered configuration with koanf.
//
// Sources, lowest priority first: defaults already set on the target
// struct, a YAML file, KVLITE_ environment variables, then explicit
// overrides such as command-line flags. Watcher reports edits to the
// configuration file so callers can apply settings that support reload.
package confloader
