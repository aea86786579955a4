package charting

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/forecast"
)

// DateTickFormat labels the time axis
const DateTickFormat = "2006-01-02"

// ErrInvalidSize is returned for non-positive chart dimensions
var ErrInvalidSize = errors.New("chart dimensions must be positive")

var lineColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// LineChart draws one column over time
type LineChart struct {
	Width  int
	Height int
}

// NewLineChart creates a renderer for charts of width x height pixels
func NewLineChart(width, height int) *LineChart {
	return &LineChart{Width: width, Height: height}
}

// Title returns the chart title for column
func Title(column string) string {
	return column + " over Time"
}

// RenderPNG writes a PNG line chart of points titled "<column> over Time"
// with the dates on X and column on Y
func (c *LineChart) RenderPNG(w io.Writer, column string, points []forecast.Point) error {
	if c.Width <= 0 || c.Height <= 0 {
		return ErrInvalidSize
	}

	p, err := c.build(column, points)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(vg.Length(c.Width), vg.Length(c.Height), "png")
	if err != nil {
		return fmt.Errorf("prepare png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func (c *LineChart) build(column string, points []forecast.Point) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title(column)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = column
	p.X.Tick.Marker = plot.TimeTicks{Format: DateTickFormat}
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		if math.IsNaN(pt.Value) || math.IsInf(pt.Value, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(pt.Time.Unix()), Y: pt.Value})
	}
	if len(xys) == 0 {
		return p, nil
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("build line for %s: %w", column, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = lineColor
	p.Add(line)

	return p, nil
}
