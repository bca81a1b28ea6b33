package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendancify/internal/services"
	"attendancify/internal/shared/testutil"
)

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	tests := []struct {
		name           string
		dirs           map[string]string
		handler        func(h *HealthHandler) http.HandlerFunc
		expectedStatus int
		expectedField  string
		expectedValue  interface{}
	}{
		{
			name:           "health",
			handler:        func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "ok",
		},
		{
			name:           "ready",
			dirs:           map[string]string{"uploads": t.TempDir()},
			handler:        func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "ready",
		},
		{
			name:           "not ready",
			dirs:           map[string]string{"uploads": filepath.Join(t.TempDir(), "missing")},
			handler:        func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusServiceUnavailable,
			expectedField:  "status",
			expectedValue:  "not_ready",
		},
		{
			name:           "version",
			handler:        func(h *HealthHandler) http.HandlerFunc { return h.Version },
			expectedStatus: http.StatusOK,
			expectedField:  "version",
			expectedValue:  "v1.0.0-test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(services.NewHealthService("v1.0.0-test", "", tt.dirs, logger), logger)

			rec := httptest.NewRecorder()
			tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedValue, body[tt.expectedField])
		})
	}
}

func TestHealthHandler_Register(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewHealthHandler(services.NewHealthService("v1.0.0-test", "", map[string]string{"outputs": t.TempDir()}, logger), logger)

	r := chi.NewRouter()
	r.Route("/api", h.Register)

	for _, path := range []string{"/api/health", "/api/health/ready", "/api/version"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json", path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
