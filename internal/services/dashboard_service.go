package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/charting"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/config"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/dataprocessing"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/exporter"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/forecast"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/infrastructure"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/session"
)

// Session event types pushed to open dashboard pages
const (
	EventDatasetLoaded = "dataset:loaded"
	EventSessionEnded  = "session:ended"
)

// SessionNotifier delivers events to the pages of one session
type SessionNotifier interface {
	PublishToSession(sessionID, eventType string, data interface{})
}

// View is one page of the dashboard navigation
type View struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

var views = []View{
	{ID: "upload", Title: "Upload Data"},
	{ID: "overview", Title: "Data Overview"},
	{ID: "visualize", Title: "Visualize"},
	{ID: "predict", Title: "Predict"},
}

// TablePreview is the shape and first rows of a table
type TablePreview struct {
	Rows    int
	Cols    int
	Columns []string
	Head    [][]string
}

// UploadFile is one CSV of an upload form
type UploadFile struct {
	Dataset session.Dataset
	Body    io.Reader
}

// UploadResult describes a stored upload
type UploadResult struct {
	Dataset session.Dataset
	Message string
	Preview TablePreview
}

// Overview is the Data Overview view
type Overview struct {
	TablePreview
	Summary []dataprocessing.ColumnSummary
}

// SeriesResult is the Visualize view for one column
type SeriesResult struct {
	Column string
	Title  string
	Points []forecast.Point
}

// PredictionResult is the Predict view
type PredictionResult struct {
	Value     float64
	Formatted string
}

// DashboardService implements the four dashboard views over a session.
// It holds no per-user state; every view receives the session explicitly.
type DashboardService struct {
	cfg      config.DashboardConfig
	store    *session.Store
	charts   *charting.LineChart
	exporter *exporter.SummaryExporter
	notifier SessionNotifier
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDashboardService creates the dashboard service. notifier and metrics
// may be nil.
func NewDashboardService(cfg config.DashboardConfig, store *session.Store, notifier SessionNotifier, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))

	logger.Info("DashboardService initialized",
		slog.String("date_column", cfg.DateColumn),
		slog.Int("preview_rows", cfg.PreviewRows),
		slog.Int("chart_width", cfg.ChartWidth),
		slog.Int("chart_height", cfg.ChartHeight))

	return &DashboardService{
		cfg:      cfg,
		store:    store,
		charts:   charting.NewLineChart(cfg.ChartWidth, cfg.ChartHeight),
		exporter: exporter.NewSummaryExporter(logger),
		notifier: notifier,
		metrics:  metrics,
		tracer:   otel.Tracer(infrastructure.InstrumentationName),
		logger:   logger,
	}
}

// Views lists the dashboard navigation
func (s *DashboardService) Views() []View {
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// Upload parses raw CSV into dataset's table and stores it in sess. On a
// parse failure the previously stored table is kept.
func (s *DashboardService) Upload(ctx context.Context, sess *session.Session, dataset session.Dataset, body io.Reader) (*UploadResult, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.upload", trace.WithAttributes(
		attribute.String("dataset", string(dataset)),
	))
	defer span.End()

	if !dataset.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, dataset)
	}

	table, err := dataprocessing.ParseReader(body)
	rows := 0
	if table != nil {
		rows = table.NumRows()
	}
	s.metrics.RecordUpload(ctx, string(dataset), rows, err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "upload rejected",
			slog.String("session_id", sess.ID),
			slog.String("dataset", string(dataset)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("parse %s upload: %w", dataset, err)
	}

	sess.SetTable(dataset, table)
	result := &UploadResult{
		Dataset: dataset,
		Message: uploadMessage(dataset),
		Preview: s.preview(table),
	}

	s.logger.InfoContext(ctx, "dataset uploaded",
		slog.String("session_id", sess.ID),
		slog.String("dataset", string(dataset)),
		slog.Int("rows", table.NumRows()),
		slog.Int("cols", table.NumCols()))

	s.notify(sess.ID, EventDatasetLoaded, map[string]interface{}{
		"dataset": dataset,
		"rows":    table.NumRows(),
		"cols":    table.NumCols(),
	})
	return result, nil
}

// UploadAll parses the files of one form submission concurrently. Every
// file that parses is stored; the first failure is returned alongside the
// results of the others. Failed files have a nil result.
func (s *DashboardService) UploadAll(ctx context.Context, sess *session.Session, files []UploadFile) ([]*UploadResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	results := make([]*UploadResult, len(files))
	var g errgroup.Group
	for i, f := range files {
		g.Go(func() error {
			res, err := s.Upload(ctx, sess, f.Dataset, f.Body)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	return results, g.Wait()
}

// Overview returns the shape, first rows and summary statistics of the
// session's price table
func (s *DashboardService) Overview(ctx context.Context, sess *session.Session) (*Overview, error) {
	_, span := s.tracer.Start(ctx, "dashboard.overview")
	defer span.End()

	table := sess.PriceTable()
	if table == nil {
		return nil, ErrNoDataLoaded
	}

	return &Overview{
		TablePreview: s.preview(table),
		Summary:      dataprocessing.Summarize(table),
	}, nil
}

// VisualizeColumns returns the columns selectable for plotting
func (s *DashboardService) VisualizeColumns(ctx context.Context, sess *session.Session) ([]string, error) {
	table, err := s.plottableTable(sess)
	if err != nil {
		return nil, err
	}
	return forecast.PlottableColumns(table), nil
}

// Visualize extracts the series of column against the date column. An
// empty column selects the first plottable one that is not the date column.
func (s *DashboardService) Visualize(ctx context.Context, sess *session.Session, column string) (*SeriesResult, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.visualize")
	defer span.End()

	table, err := s.plottableTable(sess)
	if err != nil {
		return nil, err
	}

	if column == "" {
		if column = s.defaultColumn(table); column == "" {
			return nil, fmt.Errorf("%w: no columns besides %q", forecast.ErrNonNumericColumn, s.cfg.DateColumn)
		}
	}
	span.SetAttributes(attribute.String("column", column))

	points, err := forecast.Series(table, s.cfg.DateColumn, column)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	s.logger.DebugContext(ctx, "series extracted",
		slog.String("session_id", sess.ID),
		slog.String("column", column),
		slog.Int("points", len(points)))

	return &SeriesResult{
		Column: column,
		Title:  charting.Title(column),
		Points: points,
	}, nil
}

// defaultColumn is the first plottable column other than the date column.
// The date column is not always first, e.g. "Idx,Date,Open".
func (s *DashboardService) defaultColumn(table *dataprocessing.Table) string {
	for _, c := range forecast.PlottableColumns(table) {
		if c != s.cfg.DateColumn {
			return c
		}
	}
	return ""
}

// Chart renders the Visualize view of column as a PNG
func (s *DashboardService) Chart(ctx context.Context, sess *session.Session, column string, w io.Writer) error {
	series, err := s.Visualize(ctx, sess, column)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := s.charts.RenderPNG(w, series.Column, series.Points); err != nil {
		return fmt.Errorf("render chart for %s: %w", series.Column, err)
	}
	s.metrics.RecordChart(ctx, series.Column, time.Since(start))
	return nil
}

// ExportSummary writes the summary statistics of the price table to w as
// csv or xlsx and returns the format written
func (s *DashboardService) ExportSummary(ctx context.Context, sess *session.Session, format string, w io.Writer) (exporter.Format, error) {
	f, err := exporter.ParseFormat(format)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	overview, err := s.Overview(ctx, sess)
	if err != nil {
		return "", err
	}

	if err := s.exporter.Export(w, f, overview.Summary); err != nil {
		return "", fmt.Errorf("export summary: %w", err)
	}
	s.metrics.RecordExport(ctx, string(f))
	return f, nil
}

// Predict applies the closing price formula to in
func (s *DashboardService) Predict(ctx context.Context, in forecast.PredictionInput) (*PredictionResult, error) {
	value, err := forecast.Predict(in)
	s.metrics.RecordPrediction(ctx, err)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "prediction computed", slog.Float64("value", value))
	return &PredictionResult{Value: value, Formatted: forecast.FormatPrice(value)}, nil
}

// EndSession deletes sess and tells its open pages
func (s *DashboardService) EndSession(ctx context.Context, sess *session.Session) {
	if s.store == nil || !s.store.Delete(sess.ID) {
		return
	}
	s.metrics.RecordSessionChange(ctx, -1)
	s.notify(sess.ID, EventSessionEnded, nil)
	s.logger.InfoContext(ctx, "session ended", slog.String("session_id", sess.ID))
}

func (s *DashboardService) plottableTable(sess *session.Session) (*dataprocessing.Table, error) {
	table := sess.PriceTable()
	if table == nil {
		return nil, ErrNoDataLoaded
	}
	if !table.HasColumn(s.cfg.DateColumn) {
		return nil, fmt.Errorf("%w: %w", forecast.ErrNoDateColumn,
			&dataprocessing.MissingColumnError{Column: s.cfg.DateColumn})
	}
	return table, nil
}

func (s *DashboardService) preview(table *dataprocessing.Table) TablePreview {
	rows, cols := table.Shape()
	return TablePreview{
		Rows:    rows,
		Cols:    cols,
		Columns: table.Columns(),
		Head:    table.Head(s.cfg.PreviewRows).Records(),
	}
}

func (s *DashboardService) notify(sessionID, eventType string, data interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.PublishToSession(sessionID, eventType, data)
}

func uploadMessage(d session.Dataset) string {
	if d == session.DatasetEdits {
		return "Wikipedia edits data uploaded successfully!"
	}
	return "Bitcoin data uploaded successfully!"
}
