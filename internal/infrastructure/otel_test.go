package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/config"
)

func testOTelConfig() *OTelConfig {
	return NewOTelConfig(config.Default().Telemetry, "test")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTel(t *testing.T) {
	providers, err := InitializeOTel(testOTelConfig(), quietLogger())
	require.NoError(t, err)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	require.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestInitializeOTel_TwiceDoesNotCollide(t *testing.T) {
	for i := 0; i < 2; i++ {
		providers, err := InitializeOTel(testOTelConfig(), quietLogger())
		require.NoError(t, err)
		require.NoError(t, providers.Shutdown(context.Background()))
	}
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := testOTelConfig()
	cfg.EnableMetrics = false
	cfg.EnableTracing = false

	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Meter, "a no-op meter is always available")

	_, err = CreateBusinessMetrics(providers.Meter)
	assert.NoError(t, err)
}

func TestInitializeOTel_Errors(t *testing.T) {
	_, err := InitializeOTel(nil, quietLogger())
	assert.Error(t, err)

	cfg := testOTelConfig()
	cfg.TraceExporter = "zipkin"
	_, err = InitializeOTel(cfg, quietLogger())
	assert.ErrorContains(t, err, "unsupported trace exporter")
}

func TestTraceCorrelation(t *testing.T) {
	providers, err := InitializeOTel(testOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "visualize")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	assert.Empty(t, TraceIDFromContext(context.Background()))

	RecordError(ctx, errors.New("boom"))
	RecordError(ctx, nil)
}

func TestBusinessMetrics_Exported(t *testing.T) {
	providers, err := InitializeOTel(testOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordUpload(ctx, "price", 2, nil)
	metrics.RecordUpload(ctx, "edits", 0, errors.New("bad csv"))
	metrics.RecordPrediction(ctx, nil)
	metrics.RecordChart(ctx, "Open", 15*time.Millisecond)
	metrics.RecordExport(ctx, "xlsx")
	metrics.RecordSessionChange(ctx, 1)
	metrics.RecordWebSocketChange(ctx, 1)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "dashboard_uploads_total")
	assert.Contains(t, body, "dashboard_parse_failures_total")
	assert.Contains(t, body, "dashboard_predictions_total")
	assert.Contains(t, body, "dashboard_charts_rendered_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var metrics *BusinessMetrics
	ctx := context.Background()
	metrics.RecordUpload(ctx, "price", 1, nil)
	metrics.RecordPrediction(ctx, nil)
	metrics.RecordChart(ctx, "Open", time.Second)
	metrics.RecordExport(ctx, "csv")
	metrics.RecordSessionChange(ctx, -1)
	metrics.RecordWebSocketChange(ctx, -1)
}
