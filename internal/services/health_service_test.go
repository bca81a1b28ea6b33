package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendancify/internal/shared/testutil"
)

func TestHealthService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	dir := t.TempDir()

	hs := NewHealthService("v1.2.3", "2026-01-01", map[string]string{"data": dir}, logger)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "v1.2.3", health.Version)
	assert.Contains(t, health.Runtime, "go_version")

	ready := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", ready.Status)
	require.Contains(t, ready.Services, "data")
	assert.Equal(t, "ready", ready.Services["data"].Status)

	info := hs.Version()
	assert.Equal(t, "v1.2.3", info["version"])
	assert.Equal(t, "2026-01-01", info["build_time"])
}

func TestHealthService_NotReady(t *testing.T) {
	hs := NewHealthService("dev", "", map[string]string{
		"outputs": filepath.Join(t.TempDir(), "missing"),
	}, nil)

	ready := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", ready.Status)
	assert.Contains(t, ready.Services["outputs"].Message, "Directory not found")
}
