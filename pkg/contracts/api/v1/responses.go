package api

import (
	"math"
	"time"
)

// ViewResponse is one entry of the dashboard navigation
type ViewResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ViewsResponse is the body of GET /api/views
type ViewsResponse struct {
	Views []ViewResponse `json:"views"`
}

// PreviewResponse is the shape and first rows of a table
type PreviewResponse struct {
	Rows    int        `json:"rows"`
	Cols    int        `json:"cols"`
	Columns []string   `json:"columns"`
	Head    [][]string `json:"head"`
}

// UploadResponse describes one stored dataset
type UploadResponse struct {
	Dataset string          `json:"dataset"`
	Message string          `json:"message"`
	Preview PreviewResponse `json:"preview"`
}

// UploadAllResponse is the body of the multipart upload
type UploadAllResponse struct {
	Uploads []UploadResponse `json:"uploads"`
}

// ColumnSummaryResponse holds the describe() statistics of one column.
// Statistics that are undefined for the column are null.
type ColumnSummaryResponse struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	P25    *float64 `json:"25%"`
	P50    *float64 `json:"50%"`
	P75    *float64 `json:"75%"`
	Max    *float64 `json:"max"`
}

// OverviewResponse is the body of the Data Overview view
type OverviewResponse struct {
	PreviewResponse
	Summary []ColumnSummaryResponse `json:"summary"`
}

// ColumnsResponse lists the columns selectable in the Visualize view
type ColumnsResponse struct {
	Columns []string `json:"columns"`
}

// PointResponse is one plotted observation
type PointResponse struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SeriesResponse is the body of the Visualize view
type SeriesResponse struct {
	Column   string          `json:"column"`
	Title    string          `json:"title"`
	ChartURL string          `json:"chart_url"`
	Points   []PointResponse `json:"points"`
}

// PredictResponse is the body of the Predict view
type PredictResponse struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// FloatPtr returns nil for NaN or infinite values so they encode as null
func FloatPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
