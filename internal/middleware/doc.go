// Package middleware holds the HTTP middleware chain of the server: request
// ids, structured request logging, panic recovery, rate limiting, timeouts,
// body size limits, security headers and OpenTelemetry instrumentation.
//
// Rejections are written as RFC 7807 problem documents carrying trace_id.
package middleware
