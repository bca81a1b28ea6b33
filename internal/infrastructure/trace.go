package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type traceKey struct{}

// WithTraceID returns ctx carrying id as its trace id
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// GetTraceID returns the trace id of ctx, or "" when there is none
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// GenerateTraceID returns a random UUID v4 string
func GenerateTraceID() string {
	return uuid.NewString()
}

// EnsureTraceID attaches a fresh trace id unless ctx already has one. Each
// CLI invocation starts this way so all of its log lines correlate.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, GenerateTraceID())
}

// WithComponent tags logger with a component name
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}
