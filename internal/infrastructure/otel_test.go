package infrastructure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTelDisabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    ServiceName,
		TraceExporter:  "none",
		MetricExporter: "none",
	}, quietLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	// no-op implementations are still usable
	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)
	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelUnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger"}, quietLogger())
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{MetricExporter: "statsd"}, quietLogger())
	assert.Error(t, err)
}

func TestStdoutTracing(t *testing.T) {
	var buf bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   ServiceName,
		TraceExporter: "stdout",
		SampleRatio:   1.0,
		TraceWriter:   &buf,
	}, quietLogger())
	require.NoError(t, err)

	_, span := providers.Tracer.Start(context.Background(), "reconcile")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(ctx))
	assert.Contains(t, buf.String(), "reconcile")
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    ServiceName,
		MetricExporter: "prometheus",
	}, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())
	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := NewAppMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordReconciliation(ctx, "single", "success", 3, 1, 25*time.Millisecond)
	metrics.RecordReconciliation(ctx, "batch", "schema_error", 0, 0, time.Millisecond)
	metrics.RecordExtraction(ctx, "success")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "reconciliations_total")
	assert.Contains(t, body, "matched_rows_total")
	assert.Contains(t, body, "unmatched_rows_total")
	assert.Contains(t, body, "schema_errors_total")
	assert.Contains(t, body, "extractions_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestAppMetricsNilSafe(t *testing.T) {
	var m *AppMetrics
	assert.NotPanics(t, func() {
		m.RecordReconciliation(context.Background(), "single", "error", 0, 0, time.Second)
		m.RecordExtraction(context.Background(), "error")
	})

	global, err := NewAppMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, global.ReconciliationsTotal)
}

func TestRecordErrorWithoutSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(context.Background(), io.EOF)
	})
}
