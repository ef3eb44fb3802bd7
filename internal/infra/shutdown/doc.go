// Package shutdown coordinates graceful process termination.
//
// Components register hooks with OnShutdown. Wait blocks until SIGINT,
// SIGTERM or context cancellation, then runs the hooks newest first under
// a shared timeout.
package shutdown
