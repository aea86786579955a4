package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/errors"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/dataprocessing"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/exporter"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/forecast"
	custommw "github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/middleware"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/services"
	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/session"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Views() []services.View {
	return m.Called().Get(0).([]services.View)
}

func (m *MockDashboardService) Upload(ctx context.Context, sess *session.Session, dataset session.Dataset, body io.Reader) (*services.UploadResult, error) {
	raw, _ := io.ReadAll(body)
	args := m.Called(dataset, string(raw))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UploadResult), args.Error(1)
}

func (m *MockDashboardService) UploadAll(ctx context.Context, sess *session.Session, files []services.UploadFile) ([]*services.UploadResult, error) {
	datasets := make([]session.Dataset, len(files))
	for i, f := range files {
		datasets[i] = f.Dataset
	}
	args := m.Called(datasets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*services.UploadResult), args.Error(1)
}

func (m *MockDashboardService) Overview(ctx context.Context, sess *session.Session) (*services.Overview, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Overview), args.Error(1)
}

func (m *MockDashboardService) VisualizeColumns(ctx context.Context, sess *session.Session) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDashboardService) Visualize(ctx context.Context, sess *session.Session, column string) (*services.SeriesResult, error) {
	args := m.Called(column)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SeriesResult), args.Error(1)
}

func (m *MockDashboardService) Chart(ctx context.Context, sess *session.Session, column string, w io.Writer) error {
	args := m.Called(column)
	if args.Error(0) == nil {
		_, _ = w.Write([]byte("\x89PNG fake"))
	}
	return args.Error(0)
}

func (m *MockDashboardService) ExportSummary(ctx context.Context, sess *session.Session, format string, w io.Writer) (exporter.Format, error) {
	args := m.Called(format)
	if args.Error(1) == nil {
		_, _ = w.Write([]byte(",Open\nmean,102.5\n"))
	}
	return args.Get(0).(exporter.Format), args.Error(1)
}

func (m *MockDashboardService) Predict(ctx context.Context, in forecast.PredictionInput) (*services.PredictionResult, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PredictionResult), args.Error(1)
}

func (m *MockDashboardService) EndSession(ctx context.Context, sess *session.Session) {
	m.Called(sess.ID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// newTestRouter mounts the dashboard routes behind a fixed session
func newTestRouter(svc DashboardServiceInterface, sess *session.Session) http.Handler {
	logger := testLogger()
	errorHandler := apierrors.NewErrorHandler(logger, false)
	h := NewDashboardHandler(svc, custommw.NewValidator(logger), logger, errorHandler)

	r := chi.NewRouter()
	if sess != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(custommw.WithSession(r.Context(), sess)))
			})
		})
	}
	r.Get("/api/views", h.ListViews)
	r.Mount("/api/dashboard", h.Routes())
	return r
}

func testSession() *session.Session {
	return session.NewStore(time.Minute).Create()
}

func do(t *testing.T, handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func samplePreview() services.TablePreview {
	return services.TablePreview{
		Rows:    2,
		Cols:    5,
		Columns: []string{"Date", "Open", "High", "Low", "Volume"},
		Head:    [][]string{{"2021-01-01", "100", "110", "90", "1000"}},
	}
}

func TestDashboardHandler_ListViews(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Views").Return([]services.View{{ID: "upload", Title: "Upload Data"}, {ID: "predict", Title: "Predict"}})

	rec := do(t, newTestRouter(svc, testSession()), httptest.NewRequest(http.MethodGet, "/api/views", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"views":[{"id":"upload","title":"Upload Data"},{"id":"predict","title":"Predict"}]}`, rec.Body.String())
}

func TestDashboardHandler_Upload(t *testing.T) {
	tests := []struct {
		name       string
		dataset    string
		setupMock  func(*MockDashboardService)
		wantStatus int
		wantBody   string
	}{
		{
			name:    "price upload",
			dataset: "price",
			setupMock: func(m *MockDashboardService) {
				m.On("Upload", session.DatasetPrice, "Date,Open\n").Return(&services.UploadResult{
					Dataset: session.DatasetPrice,
					Message: "Bitcoin data uploaded successfully!",
					Preview: samplePreview(),
				}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"Bitcoin data uploaded successfully!"`,
		},
		{
			name:       "unknown dataset",
			dataset:    "weather",
			setupMock:  func(m *MockDashboardService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"VALIDATION_FAILED"`,
		},
		{
			name:    "parse error",
			dataset: "edits",
			setupMock: func(m *MockDashboardService) {
				m.On("Upload", session.DatasetEdits, "Date,Open\n").
					Return(nil, fmt.Errorf("parse edits upload: %w", &dataprocessing.ParseError{Line: 2, Err: errors.New("wrong number of fields")}))
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `"PARSE_ERROR"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/dashboard/upload/"+tt.dataset, strings.NewReader("Date,Open\n"))
			req.Header.Set("Content-Type", "text/csv")
			rec := do(t, newTestRouter(svc, testSession()), req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}

func multipartRequest(t *testing.T, parts map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, content := range parts {
		fw, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDashboardHandler_UploadAll(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("UploadAll", []session.Dataset{session.DatasetPrice, session.DatasetEdits}).Return([]*services.UploadResult{
		{Dataset: session.DatasetPrice, Message: "Bitcoin data uploaded successfully!", Preview: samplePreview()},
		{Dataset: session.DatasetEdits, Message: "Wikipedia edits data uploaded successfully!", Preview: samplePreview()},
	}, nil)

	rec := do(t, newTestRouter(svc, testSession()), multipartRequest(t, map[string]string{
		"edits": "Date,Edits\n",
		"price": "Date,Open\n",
	}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	uploads := decodeBody(t, rec)["uploads"].([]interface{})
	require.Len(t, uploads, 2)
	assert.Equal(t, "price", uploads[0].(map[string]interface{})["dataset"])
	svc.AssertExpectations(t)
}

func TestDashboardHandler_UploadAll_Errors(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("UploadAll", []session.Dataset{}).Return(nil, services.ErrNoFiles)

		rec := do(t, newTestRouter(svc, testSession()), multipartRequest(t, map[string]string{"other": "x"}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("one file fails", func(t *testing.T) {
		svc := new(MockDashboardService)
		parseErr := &dataprocessing.ParseError{Line: 3, Err: errors.New("wrong number of fields")}
		svc.On("UploadAll", []session.Dataset{session.DatasetPrice, session.DatasetEdits}).Return([]*services.UploadResult{
			{Dataset: session.DatasetPrice, Message: "Bitcoin data uploaded successfully!", Preview: samplePreview()},
			nil,
		}, fmt.Errorf("upload edits: %w", parseErr))

		rec := do(t, newTestRouter(svc, testSession()), multipartRequest(t, map[string]string{
			"edits": "Date,Edits\n",
			"price": "Date,Open\n",
		}))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		assert.Equal(t, apierrors.ContentTypeProblem, rec.Header().Get("Content-Type"))
		body := decodeBody(t, rec)
		assert.Equal(t, "PARSE_ERROR", body["error_code"])
		uploads := body["uploads"].([]interface{})
		require.Len(t, uploads, 1)
		assert.Equal(t, "price", uploads[0].(map[string]interface{})["dataset"])
	})

	t.Run("every file fails", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("UploadAll", []session.Dataset{session.DatasetPrice}).Return([]*services.UploadResult{nil},
			&dataprocessing.ParseError{Err: errors.New("empty input")})

		rec := do(t, newTestRouter(svc, testSession()), multipartRequest(t, map[string]string{"price": "x"}))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.NotContains(t, decodeBody(t, rec), "uploads")
	})

	t.Run("not multipart", func(t *testing.T) {
		svc := new(MockDashboardService)
		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/upload", strings.NewReader("a,b"))
		req.Header.Set("Content-Type", "text/csv")

		rec := do(t, newTestRouter(svc, testSession()), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UploadAll", mock.Anything)
	})

	t.Run("too large", func(t *testing.T) {
		svc := new(MockDashboardService)
		req := multipartRequest(t, map[string]string{"price": strings.Repeat("1,2\n", 1024)})
		rec := httptest.NewRecorder()
		custommw.BodyLimit(64)(newTestRouter(svc, testSession())).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestDashboardHandler_Overview(t *testing.T) {
	t.Run("loaded", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("Overview").Return(&services.Overview{
			TablePreview: samplePreview(),
			Summary: []dataprocessing.ColumnSummary{
				{Column: "Open", Count: 1, Mean: 100, Std: math.NaN(), Min: 100, P25: 100, P50: 100, P75: 100, Max: 100},
			},
		}, nil)

		rec := do(t, newTestRouter(svc, testSession()), httptest.NewRequest(http.MethodGet, "/api/dashboard/overview", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, float64(2), body["rows"])
		assert.Equal(t, float64(5), body["cols"])
		summary := body["summary"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, 100.0, summary["mean"])
		assert.Nil(t, summary["std"])
	})

	t.Run("no data", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("Overview").Return(nil, services.ErrNoDataLoaded)

		rec := do(t, newTestRouter(svc, testSession()), httptest.NewRequest(http.MethodGet, "/api/dashboard/overview", nil))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		body := decodeBody(t, rec)
		assert.Equal(t, "NO_DATA_LOADED", body["error_code"])
		assert.Equal(t, "Please upload Bitcoin data first on the 'Upload Data' page.", body["detail"])
	})
}

func TestDashboardHandler_ExportSummary(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("ExportSummary", "csv").Return(exporter.FormatCSV, nil)
	svc.On("ExportSummary", "xlsx").Return(exporter.FormatXLSX, nil)
	router := newTestRouter(svc, testSession())

	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/api/dashboard/overview/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.FormatCSV.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="summary.csv"`)
	assert.Contains(t, rec.Body.String(), "mean,102.5")

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/dashboard/overview/export?format=xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="summary.xlsx"`)

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/dashboard/overview/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNumberOfCalls(t, "ExportSummary", 2)
}

func TestDashboardHandler_Visualize(t *testing.T) {
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		setupMock  func(*MockDashboardService)
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:  "series",
			query: "?column=Open",
			setupMock: func(m *MockDashboardService) {
				m.On("Visualize", "Open").Return(&services.SeriesResult{
					Column: "Open",
					Title:  "Open over Time",
					Points: []forecast.Point{{Time: day, Value: 100}},
				}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Open over Time", body["title"])
				assert.Equal(t, "/api/dashboard/visualize/chart.png?column=Open", body["chart_url"])
				point := body["points"].([]interface{})[0].(map[string]interface{})
				assert.Equal(t, "2021-01-01T00:00:00Z", point["date"])
				assert.Equal(t, 100.0, point["value"])
			},
		},
		{
			name:  "missing date column",
			query: "?column=Open",
			setupMock: func(m *MockDashboardService) {
				m.On("Visualize", "Open").Return(nil,
					fmt.Errorf("%w: %w", forecast.ErrNoDateColumn, &dataprocessing.MissingColumnError{Column: "Date"}))
			},
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "MISSING_COLUMN", body["error_code"])
				assert.Equal(t, "No 'Date' column found in the dataset.", body["detail"])
			},
		},
		{
			name:  "non numeric",
			query: "?column=Note",
			setupMock: func(m *MockDashboardService) {
				m.On("Visualize", "Note").Return(nil, fmt.Errorf("%w: %q", forecast.ErrNonNumericColumn, "Note"))
			},
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "NON_NUMERIC_COLUMN", body["error_code"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setupMock(svc)

			rec := do(t, newTestRouter(svc, testSession()), httptest.NewRequest(http.MethodGet, "/api/dashboard/visualize"+tt.query, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			tt.check(t, decodeBody(t, rec))
		})
	}
}

func TestDashboardHandler_VisualizeColumns(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("VisualizeColumns").Return([]string{"Open", "High"}, nil)

	rec := do(t, newTestRouter(svc, testSession()), httptest.NewRequest(http.MethodGet, "/api/dashboard/visualize/columns", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"columns":["Open","High"]}`, rec.Body.String())
}

func TestDashboardHandler_Chart(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Chart", "High").Return(nil)
	svc.On("Chart", "").Return(services.ErrNoDataLoaded)
	router := newTestRouter(svc, testSession())

	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/api/dashboard/visualize/chart.png?column=High", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/dashboard/visualize/chart.png", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), "PNG")
}

func TestDashboardHandler_Predict(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		setupMock   func(*MockDashboardService)
		wantStatus  int
		wantBody    string
	}{
		{
			name:        "valid",
			body:        `{"open":100,"high":110,"low":90,"volume":1000}`,
			contentType: "application/json",
			setupMock: func(m *MockDashboardService) {
				m.On("Predict", forecast.PredictionInput{Open: 100, High: 110, Low: 90, Volume: 1000}).
					Return(&services.PredictionResult{Value: 100.01, Formatted: "$100.01"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"formatted":"$100.01"`,
		},
		{
			name:        "zero values",
			body:        `{"open":0,"high":0,"low":0,"volume":0}`,
			contentType: "application/json",
			setupMock: func(m *MockDashboardService) {
				m.On("Predict", forecast.PredictionInput{}).
					Return(&services.PredictionResult{Value: 0, Formatted: "$0.00"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"$0.00"`,
		},
		{
			name:        "negative",
			body:        `{"open":-1,"high":110,"low":90,"volume":1000}`,
			contentType: "application/json",
			setupMock:   func(m *MockDashboardService) {},
			wantStatus:  http.StatusBadRequest,
			wantBody:    `"VALIDATION_FAILED"`,
		},
		{
			name:        "missing field",
			body:        `{"open":1,"high":1,"low":1}`,
			contentType: "application/json",
			setupMock:   func(m *MockDashboardService) {},
			wantStatus:  http.StatusBadRequest,
			wantBody:    `"volume"`,
		},
		{
			name:        "wrong content type",
			body:        `open=1`,
			contentType: "application/x-www-form-urlencoded",
			setupMock:   func(m *MockDashboardService) {},
			wantStatus:  http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/dashboard/predict", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := do(t, newTestRouter(svc, testSession()), req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_EndSession(t *testing.T) {
	sess := testSession()
	svc := new(MockDashboardService)
	svc.On("EndSession", sess.ID).Return()

	rec := do(t, newTestRouter(svc, sess), httptest.NewRequest(http.MethodDelete, "/api/dashboard/session", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_NoSession(t *testing.T) {
	svc := new(MockDashboardService)
	rec := do(t, newTestRouter(svc, nil), httptest.NewRequest(http.MethodGet, "/api/dashboard/overview", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	svc.AssertNotCalled(t, "Overview")
}
