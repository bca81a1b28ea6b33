package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	dirs      map[string]string
	startTime time.Time
	logger    *slog.Logger
}

// Health status values
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual dependency health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. dirs names the directories that
// must exist and be writable for the service to be ready.
func NewHealthService(version, buildTime string, dirs map[string]string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		dirs:      dirs,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
	}
}

// ReadinessCheck reports "ready" when every configured directory is usable
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(hs.dirs)),
	}

	for name, dir := range hs.dirs {
		sh := checkDir(dir)
		status.Services[name] = sh
		if sh.Status != StatusReady {
			status.Status = StatusNotReady
		}
	}

	if status.Status != StatusReady {
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready", slog.Any("services", status.Services))
	}
	return status
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"start_time": hs.startTime.Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func checkDir(dir string) ServiceHealth {
	info, err := os.Stat(dir)
	if err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("Directory not found: %s", dir)}
	}
	if !info.IsDir() {
		return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("Not a directory: %s", dir)}
	}

	probe, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("Cannot write to %s: %v", dir, err)}
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	return ServiceHealth{Status: StatusReady}
}
