// Package redisserver serves the kvlite keyspace over a Redis-like protocol.
//
// Each accepted connection runs in its own goroutine. Requests are decoded
// with the resp package, executed by a Dispatcher in arrival order, and every
// reply is flushed before the next command runs. Malformed input closes the
// connection without a reply.
package redisserver
