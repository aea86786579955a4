package http

import (
	"io/fs"
	"log/slog"
	"net/http"
)

// IndexFile is the dashboard page inside the frontend filesystem
const IndexFile = "index.html"

// ServeDashboard serves the single-page dashboard from frontend
func ServeDashboard(frontend fs.FS, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := fs.ReadFile(frontend, IndexFile)
		if err != nil {
			logger.ErrorContext(r.Context(), "dashboard page missing", slog.String("error", err.Error()))
			http.Error(w, "Dashboard page not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}
