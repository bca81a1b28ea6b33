package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendancify/internal/config"
	"attendancify/internal/shared/testutil"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	app, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.OTelProviders.Shutdown(context.Background()) })
	return app
}

func serve(app *Application, method, target string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func TestNewApplication(t *testing.T) {
	cfg := newTestConfig(t)
	app := newTestApplication(t, cfg)

	require.NotNil(t, app.Services)
	assert.NotNil(t, app.Services.Reconcile)
	assert.NotNil(t, app.Services.Health)
	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Metrics)
	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Equal(t, cfg.Server.ReadTimeout, app.Server.ReadTimeout)

	for _, dir := range []string{app.Paths.UploadsDir, app.Paths.OutputDir, app.Paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestNewApplication_Errors(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	t.Run("nil config", func(t *testing.T) {
		_, err := NewApplication(nil, logger)
		assert.Error(t, err)
	})

	t.Run("unknown metric exporter", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Telemetry.MetricExporter = "statsd"
		_, err := NewApplication(cfg, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OpenTelemetry")
	})
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/health/ready", http.StatusOK},
		{http.MethodGet, "/api/version", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/reconcile", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(app, tt.method, tt.path, nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	rec := serve(app, http.MethodGet, "/api/unknown", nil)
	assert.Contains(t, rec.Body.String(), `"type":"/errors/not-found"`)
}

func TestApplication_MiddlewareHeaders(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))

	rec := serve(app, http.MethodGet, "/api/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestApplication_MetricsExposeHTTPRequests(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))

	serve(app, http.MethodGet, "/api/health", nil)
	rec := serve(app, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/health"`)
}

func TestApplication_UploadLimits(t *testing.T) {
	t.Run("body too large", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Security.MaxUploadBytes = 16
		app := newTestApplication(t, cfg)

		rec := serve(app, http.MethodPost, "/api/reconcile", bytes.NewReader(make([]byte, 64)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
		app := newTestApplication(t, cfg)

		first := serve(app, http.MethodPost, "/api/extract", strings.NewReader(""))
		assert.Equal(t, http.StatusBadRequest, first.Code)

		second := serve(app, http.MethodPost, "/api/extract", strings.NewReader(""))
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "1", second.Header().Get("Retry-After"))

		// health checks are not rate limited
		assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/api/health", nil).Code)
	})
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))
	app.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.Start(ctx, cancel))

	resp, err := http.Get("http://" + app.Addr() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, app.Stop(context.Background()))

	_, err = http.Get("http://" + app.Addr() + "/api/health")
	assert.Error(t, err)
}

func TestApplication_RunReturnsWhenContextCancelled(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))
	app.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestApplication_StartFailsOnBusyPort(t *testing.T) {
	first := newTestApplication(t, newTestConfig(t))
	first.Server.Addr = "127.0.0.1:0"
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, first.Start(ctx, cancel))
	defer first.Stop(context.Background())

	second := newTestApplication(t, newTestConfig(t))
	second.Server.Addr = first.Addr()
	assert.Error(t, second.Start(ctx, cancel))
}
