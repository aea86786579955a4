package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/app"
)

//go:embed all:frontend
var frontendFiles embed.FS

func main() {
	frontendFS, err := fs.Sub(frontendFiles, "frontend")
	if err != nil {
		slog.Error("Failed to load embedded frontend", slog.String("error", err.Error()))
		os.Exit(1)
	}

	application, err := app.NewApplication(frontendFS)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
