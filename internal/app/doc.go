// Package app wires the attendance HTTP service together and manages its
// lifecycle.
//
// NewApplication takes a loaded configuration and builds, in order:
//
//  1. resolved directories (uploads, outputs, logs)
//  2. OpenTelemetry providers and the application metrics
//  3. the reconcile and health services
//  4. the chi router with the middleware chain and /api routes
//  5. the http.Server
//
// Routes:
//
//	GET  /api/health        liveness
//	GET  /api/health/ready  directory checks, 503 when not ready
//	GET  /api/version       build information
//	POST /api/reconcile     match rosters against raw attendance files
//	POST /api/extract       convert meeting exports to raw tables
//	GET  /metrics           Prometheus scrape endpoint
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// shuts the server down and flushes telemetry. Errors are returned to the
// caller; the package never exits the process.
package app
