// Package httpserver runs an http.Handler with configured timeouts and
// graceful shutdown.
//
// Run blocks until the context is canceled or the listener fails, then shuts
// the server down within the configured deadline. Errors are wrapped with
// ErrStart and ErrShutdown. HealthCheckHandler builds a readiness probe from
// plain check functions.
package httpserver
