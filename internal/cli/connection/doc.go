// Package connection provides the kvlite-cli connection to a server.
//
// Client sends one request at a time over TCP and reads its reply.
// Manager keeps a Client for the lifetime of a REPL session and redials
// after a connection error.
package connection
