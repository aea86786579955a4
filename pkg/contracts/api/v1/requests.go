// Package api contains the JSON contracts of the dashboard API.
// Version v1 is the current API version.
package api

// PredictRequest is the body of POST /api/dashboard/predict. Pointers make
// an omitted field fail "required" instead of reading as zero.
type PredictRequest struct {
	Open   *float64 `json:"open" validate:"required,gte=0"`
	High   *float64 `json:"high" validate:"required,gte=0"`
	Low    *float64 `json:"low" validate:"required,gte=0"`
	Volume *float64 `json:"volume" validate:"required,gte=0"`
}

// VisualizeQuery holds the query parameters of the Visualize endpoints
type VisualizeQuery struct {
	Column string `json:"column" query:"column" validate:"omitempty,max=256"`
}

// ExportQuery holds the query parameters of the summary download
type ExportQuery struct {
	Format string `json:"format" query:"format" validate:"omitempty,oneof=csv xlsx"`
}
