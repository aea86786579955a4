package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics holds the dashboard's application metrics
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	UploadsTotal       metric.Int64Counter
	UploadRows         metric.Int64Histogram
	ParseFailuresTotal metric.Int64Counter
	PredictionsTotal   metric.Int64Counter
	ChartsRendered     metric.Int64Counter
	ChartRenderTime    metric.Float64Histogram
	ExportsTotal       metric.Int64Counter

	ActiveSessions       metric.Int64UpDownCounter
	WebSocketConnections metric.Int64UpDownCounter
}

// CreateBusinessMetrics registers the dashboard metrics on meter
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests")); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter("http_active_requests",
		metric.WithDescription("Number of active HTTP requests")); err != nil {
		return nil, err
	}

	if m.UploadsTotal, err = meter.Int64Counter("dashboard_uploads_total",
		metric.WithDescription("CSV uploads by dataset and outcome")); err != nil {
		return nil, err
	}
	if m.UploadRows, err = meter.Int64Histogram("dashboard_upload_rows",
		metric.WithDescription("Rows per successfully parsed upload")); err != nil {
		return nil, err
	}
	if m.ParseFailuresTotal, err = meter.Int64Counter("dashboard_parse_failures_total",
		metric.WithDescription("Uploads rejected as unreadable CSV")); err != nil {
		return nil, err
	}
	if m.PredictionsTotal, err = meter.Int64Counter("dashboard_predictions_total",
		metric.WithDescription("Closing price predictions served")); err != nil {
		return nil, err
	}
	if m.ChartsRendered, err = meter.Int64Counter("dashboard_charts_rendered_total",
		metric.WithDescription("Line charts rendered")); err != nil {
		return nil, err
	}
	if m.ChartRenderTime, err = meter.Float64Histogram("dashboard_chart_render_seconds",
		metric.WithDescription("Line chart render duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.ExportsTotal, err = meter.Int64Counter("dashboard_exports_total",
		metric.WithDescription("Summary downloads by format")); err != nil {
		return nil, err
	}

	if m.ActiveSessions, err = meter.Int64UpDownCounter("dashboard_active_sessions",
		metric.WithDescription("Live dashboard sessions")); err != nil {
		return nil, err
	}
	if m.WebSocketConnections, err = meter.Int64UpDownCounter("websocket_connections",
		metric.WithDescription("Open websocket connections")); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordUpload counts one upload attempt for dataset
func (m *BusinessMetrics) RecordUpload(ctx context.Context, dataset string, rows int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
		m.ParseFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("dataset", dataset)))
	} else {
		m.UploadRows.Record(ctx, int64(rows), metric.WithAttributes(attribute.String("dataset", dataset)))
	}
	m.UploadsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dataset", dataset),
		attribute.String("status", status),
	))
}

// RecordPrediction counts one prediction
func (m *BusinessMetrics) RecordPrediction(ctx context.Context, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.PredictionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordChart counts one rendered chart
func (m *BusinessMetrics) RecordChart(ctx context.Context, column string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("column", column))
	m.ChartsRendered.Add(ctx, 1, attrs)
	m.ChartRenderTime.Record(ctx, d.Seconds(), attrs)
}

// RecordExport counts one summary download
func (m *BusinessMetrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordSessionChange adjusts the live session gauge
func (m *BusinessMetrics) RecordSessionChange(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.ActiveSessions.Add(ctx, delta)
}

// RecordWebSocketChange adjusts the open websocket gauge
func (m *BusinessMetrics) RecordWebSocketChange(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WebSocketConnections.Add(ctx, delta)
}
