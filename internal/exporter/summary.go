package exporter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/dataprocessing"
)

// Format is a download format for summary statistics
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SummarySheet names the worksheet of XLSX exports
const SummarySheet = "Summary"

// ErrUnknownFormat is returned for formats other than csv and xlsx
var ErrUnknownFormat = errors.New("unknown export format")

// ContentType returns the MIME type of f
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename returns the download name for a summary in format f
func (f Format) Filename() string {
	return "summary." + string(f)
}

// ParseFormat validates a requested format
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// SummaryExporter writes summary statistics tables
type SummaryExporter struct {
	logger *slog.Logger
}

// NewSummaryExporter creates a summary exporter
func NewSummaryExporter(logger *slog.Logger) *SummaryExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryExporter{logger: logger.With(slog.String("component", "summary_exporter"))}
}

// Export writes summaries to w in the requested format
func (e *SummaryExporter) Export(w io.Writer, format Format, summaries []dataprocessing.ColumnSummary) error {
	e.logger.Debug("exporting summary",
		slog.String("format", string(format)),
		slog.Int("columns", len(summaries)))

	switch format {
	case FormatCSV:
		return e.WriteCSV(w, summaries)
	case FormatXLSX:
		return e.WriteXLSX(w, summaries)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// SummaryGrid lays summaries out with one row per statistic. The first
// header cell is empty and heads the statistic-name column.
func SummaryGrid(summaries []dataprocessing.ColumnSummary) ([]string, [][]string) {
	headers := make([]string, 0, len(summaries)+1)
	headers = append(headers, "")
	for _, s := range summaries {
		headers = append(headers, s.Column)
	}

	columns := make([][]float64, len(summaries))
	for i, s := range summaries {
		columns[i] = s.Values()
	}

	records := make([][]string, len(dataprocessing.SummaryStatistics))
	for row, stat := range dataprocessing.SummaryStatistics {
		record := make([]string, 0, len(summaries)+1)
		record = append(record, stat)
		for _, values := range columns {
			record = append(record, formatFloat(values[row]))
		}
		records[row] = record
	}
	return headers, records
}

// WriteCSV writes the summary grid as CSV
func (e *SummaryExporter) WriteCSV(w io.Writer, summaries []dataprocessing.ColumnSummary) error {
	headers, records := SummaryGrid(summaries)
	return NewCSVWriter(w).WriteCSV(WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteXLSX writes the summary grid as a single-sheet workbook. Statistics
// are stored as numbers; missing ones are left empty.
func (e *SummaryExporter) WriteXLSX(w io.Writer, summaries []dataprocessing.ColumnSummary) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("failed to close workbook", slog.String("error", err.Error()))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers, _ := SummaryGrid(summaries)
	for col, header := range headers {
		if err := setCell(f, col+1, 1, header); err != nil {
			return err
		}
	}

	for row, stat := range dataprocessing.SummaryStatistics {
		if err := setCell(f, 1, row+2, stat); err != nil {
			return err
		}
		for col, s := range summaries {
			v := s.Values()[row]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if err := setCell(f, col+2, row+2, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 8); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(SummarySheet, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}
