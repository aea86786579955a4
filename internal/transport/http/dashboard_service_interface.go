package http

import (
	"context"
	"io"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/exporter"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/forecast"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/services"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/session"
)

// DashboardServiceInterface defines the dashboard view operations
type DashboardServiceInterface interface {
	Views() []services.View
	Upload(ctx context.Context, sess *session.Session, dataset session.Dataset, body io.Reader) (*services.UploadResult, error)
	UploadAll(ctx context.Context, sess *session.Session, files []services.UploadFile) ([]*services.UploadResult, error)
	Overview(ctx context.Context, sess *session.Session) (*services.Overview, error)
	VisualizeColumns(ctx context.Context, sess *session.Session) ([]string, error)
	Visualize(ctx context.Context, sess *session.Session, column string) (*services.SeriesResult, error)
	Chart(ctx context.Context, sess *session.Session, column string, w io.Writer) error
	ExportSummary(ctx context.Context, sess *session.Session, format string, w io.Writer) (exporter.Format, error)
	Predict(ctx context.Context, in forecast.PredictionInput) (*services.PredictionResult, error)
	EndSession(ctx context.Context, sess *session.Session)
}
