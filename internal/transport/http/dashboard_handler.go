package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/errors"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/forecast"
	custommw "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/middleware"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/services"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/session"
	api "github.com/jatinsharma1322660/Bit-Coin-Prediction/pkg/contracts/api/v1"
)

// multipartMemory is the part of a multipart upload kept in memory
const multipartMemory = 8 << 20

// ChartPath is where the rendered chart of the Visualize view is served
const ChartPath = "/api/dashboard/visualize/chart.png"

var errNoSession = apierrors.New(http.StatusInternalServerError, apierrors.CodeInternal, "Session is not available")

// DashboardHandler serves the four dashboard views
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *custommw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, validator *custommw.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload", h.UploadAll)
	r.With(h.DatasetCtx).Post("/upload/{dataset}", h.Upload)

	r.Route("/overview", func(r chi.Router) {
		r.Get("/", h.Overview)
		r.Get("/export", h.ExportSummary)
	})

	r.Route("/visualize", func(r chi.Router) {
		r.Get("/", h.Visualize)
		r.Get("/columns", h.VisualizeColumns)
		r.Get("/chart.png", h.Chart)
	})

	r.With(custommw.ContentTypeValidator(h.errorHandler, "application/json")).
		Post("/predict", h.Predict)
	r.Delete("/session", h.EndSession)

	return r
}

// DatasetCtx validates the {dataset} URL parameter
func (h *DashboardHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dataset := session.Dataset(chi.URLParam(r, "dataset"))
		if !dataset.Valid() {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dataset",
				fmt.Sprintf("Unknown dataset %q, expected %q or %q", dataset, session.DatasetPrice, session.DatasetEdits)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListViews handles GET /api/views
func (h *DashboardHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	views := h.service.Views()
	resp := api.ViewsResponse{Views: make([]api.ViewResponse, len(views))}
	for i, v := range views {
		resp.Views[i] = api.ViewResponse{ID: v.ID, Title: v.Title}
	}
	render.JSON(w, r, resp)
}

// Upload handles POST /api/dashboard/upload/{dataset} with a raw CSV body
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	dataset := session.Dataset(chi.URLParam(r, "dataset"))

	result, err := h.service.Upload(r.Context(), sess, dataset, r.Body)
	if err != nil {
		h.fail(w, r, "upload failed", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toUploadResponse(result))
}

// UploadAll handles POST /api/dashboard/upload with multipart fields
// "price" and "edits"
func (h *DashboardHandler) UploadAll(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []services.UploadFile
	for _, dataset := range []session.Dataset{session.DatasetPrice, session.DatasetEdits} {
		headers := r.MultipartForm.File[string(dataset)]
		if len(headers) == 0 {
			continue
		}
		f, err := openPart(headers[0])
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		defer f.Close()
		files = append(files, services.UploadFile{Dataset: dataset, Body: f})
	}

	results, err := h.service.UploadAll(r.Context(), sess, files)
	stored := make([]api.UploadResponse, 0, len(results))
	for _, res := range results {
		if res != nil {
			stored = append(stored, toUploadResponse(res))
		}
	}

	if err != nil {
		if len(stored) == 0 {
			h.fail(w, r, "multipart upload failed", err)
			return
		}
		// the files that parsed are kept in the session, so the problem lists them
		h.logger.WarnContext(r.Context(), "multipart upload partially failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
			slog.Int("stored", len(stored)))
		h.errorHandler.HandleErrorWithExtensions(w, r, err, map[string]interface{}{"uploads": stored})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.UploadAllResponse{Uploads: stored})
}

// Overview handles GET /api/dashboard/overview
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	overview, err := h.service.Overview(r.Context(), sess)
	if err != nil {
		h.fail(w, r, "overview failed", err)
		return
	}

	resp := api.OverviewResponse{
		PreviewResponse: toPreviewResponse(overview.TablePreview),
		Summary:         make([]api.ColumnSummaryResponse, len(overview.Summary)),
	}
	for i, s := range overview.Summary {
		resp.Summary[i] = api.ColumnSummaryResponse{
			Column: s.Column,
			Count:  s.Count,
			Mean:   api.FloatPtr(s.Mean),
			Std:    api.FloatPtr(s.Std),
			Min:    api.FloatPtr(s.Min),
			P25:    api.FloatPtr(s.P25),
			P50:    api.FloatPtr(s.P50),
			P75:    api.FloatPtr(s.P75),
			Max:    api.FloatPtr(s.Max),
		}
	}
	render.JSON(w, r, resp)
}

// ExportSummary handles GET /api/dashboard/overview/export?format=csv|xlsx
func (h *DashboardHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	format, err := custommw.QueryEnum(r, "format", []string{"csv", "xlsx"}, "csv")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	f, err := h.service.ExportSummary(r.Context(), sess, format, &buf)
	if err != nil {
		h.fail(w, r, "summary export failed", err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// VisualizeColumns handles GET /api/dashboard/visualize/columns
func (h *DashboardHandler) VisualizeColumns(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	cols, err := h.service.VisualizeColumns(r.Context(), sess)
	if err != nil {
		h.fail(w, r, "visualize columns failed", err)
		return
	}
	render.JSON(w, r, api.ColumnsResponse{Columns: cols})
}

// Visualize handles GET /api/dashboard/visualize?column=Open
func (h *DashboardHandler) Visualize(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	query, err := h.visualizeQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	series, err := h.service.Visualize(r.Context(), sess, query.Column)
	if err != nil {
		h.fail(w, r, "visualize failed", err)
		return
	}

	resp := api.SeriesResponse{
		Column:   series.Column,
		Title:    series.Title,
		ChartURL: ChartPath + "?column=" + url.QueryEscape(series.Column),
		Points:   make([]api.PointResponse, len(series.Points)),
	}
	for i, p := range series.Points {
		resp.Points[i] = api.PointResponse{Date: p.Time, Value: p.Value}
	}
	render.JSON(w, r, resp)
}

// Chart handles GET /api/dashboard/visualize/chart.png?column=Open
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	query, err := h.visualizeQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// render fully before writing so failures still become problem responses
	var buf bytes.Buffer
	if err := h.service.Chart(r.Context(), sess, query.Column, &buf); err != nil {
		h.fail(w, r, "chart failed", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Predict handles POST /api/dashboard/predict
func (h *DashboardHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req api.PredictRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Predict(r.Context(), forecast.PredictionInput{
		Open:   *req.Open,
		High:   *req.High,
		Low:    *req.Low,
		Volume: *req.Volume,
	})
	if err != nil {
		h.fail(w, r, "prediction failed", err)
		return
	}
	render.JSON(w, r, api.PredictResponse{Value: result.Value, Formatted: result.Formatted})
}

// EndSession handles DELETE /api/dashboard/session
func (h *DashboardHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.service.EndSession(r.Context(), sess)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHandler) visualizeQuery(r *http.Request) (api.VisualizeQuery, error) {
	q := api.VisualizeQuery{Column: r.URL.Query().Get("column")}
	return q, h.validator.ValidateStruct(&q)
}

func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, errNoSession)
	}
	return sess, ok
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	h.errorHandler.HandleError(w, r, err)
}

func openPart(fh *multipart.FileHeader) (multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	return f, nil
}

func toPreviewResponse(p services.TablePreview) api.PreviewResponse {
	return api.PreviewResponse{Rows: p.Rows, Cols: p.Cols, Columns: p.Columns, Head: p.Head}
}

func toUploadResponse(res *services.UploadResult) api.UploadResponse {
	return api.UploadResponse{
		Dataset: string(res.Dataset),
		Message: res.Message,
		Preview: toPreviewResponse(res.Preview),
	}
}
