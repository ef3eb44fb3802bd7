// Package output renders kvlite-cli results.
//
// Text output follows redis-cli: status lines print bare (PONG), strings
// print quoted ("v") and a missing value prints (nil). JSON and YAML print
// a Result with the reply type and value for scripting.
package output
