package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Renderer rasterizes a chart request.
type Renderer interface {
	Render(req *Request, w io.Writer) error
}

// RenderOptions sizes the rendered image.
type RenderOptions struct {
	Width         int
	Height        int
	MaxCategories int
}

// DefaultRenderOptions matches the CLI defaults.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: 800, Height: 400, MaxCategories: 30}
}

// PNGRenderer draws charts as PNG images with go-chart.
type PNGRenderer struct {
	opts RenderOptions
}

var _ Renderer = (*PNGRenderer)(nil)

// NewPNGRenderer creates a renderer. Zero fields fall back to the defaults.
func NewPNGRenderer(opts RenderOptions) *PNGRenderer {
	def := DefaultRenderOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.MaxCategories < 0 {
		opts.MaxCategories = def.MaxCategories
	}
	return &PNGRenderer{opts: opts}
}

// Render writes the chart as a PNG to w.
func (r *PNGRenderer) Render(req *Request, w io.Writer) error {
	p, err := PlotData(req, r.opts.MaxCategories)
	if err != nil {
		return err
	}

	switch p.Kind {
	case Bar, Histogram:
		return r.bar(p, w)
	case Pie:
		return r.pie(p, w)
	case Line:
		return r.continuous(p, lineStyle(gochart.ColorBlue), w)
	case Scatter:
		return r.continuous(p, pointStyle(gochart.ColorBlue), w)
	}
	return fmt.Errorf("cannot render %s chart", p.Kind)
}

// Save renders the chart into dir and returns the written path.
func (r *PNGRenderer) Save(req *Request, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", req.Kind, uuid.NewString()[:8]))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := r.Render(req, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write chart file: %w", err)
	}
	return path, nil
}

func (r *PNGRenderer) bar(p *Plot, w io.Writer) error {
	bars := make([]gochart.Value, len(p.Values))
	for i, v := range p.Values {
		bars[i] = gochart.Value{Label: p.Labels[i], Value: v}
	}
	lo, hi := span(append([]float64{0}, p.Values...))

	width, spacing := barGeometry(r.opts.Width, len(bars))
	bc := gochart.BarChart{
		Title:      p.Title,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		BarWidth:   width,
		BarSpacing: spacing,
		YAxis:      gochart.YAxis{Name: p.YLabel, Range: &gochart.ContinuousRange{Min: lo, Max: hi}},
		Bars:       bars,
	}
	return bc.Render(gochart.PNG, w)
}

func (r *PNGRenderer) pie(p *Plot, w io.Writer) error {
	values := make([]gochart.Value, len(p.Values))
	for i, v := range p.Values {
		values[i] = gochart.Value{Label: p.Labels[i], Value: v}
	}
	pc := gochart.PieChart{
		Title:  p.Title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Values: values,
	}
	return pc.Render(gochart.PNG, w)
}

func (r *PNGRenderer) continuous(p *Plot, style gochart.Style, w io.Writer) error {
	xs, ys := p.X, p.Y
	// A single point has no extent; duplicate it so the axes get a range.
	if len(xs) == 1 {
		xs = []float64{xs[0], xs[0]}
		ys = []float64{ys[0], ys[0]}
	}
	xlo, xhi := span(xs)
	ylo, yhi := span(ys)

	ch := gochart.Chart{
		Title:      p.Title,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: p.XLabel, Range: &gochart.ContinuousRange{Min: xlo, Max: xhi}},
		YAxis:      gochart.YAxis{Name: p.YLabel, Range: &gochart.ContinuousRange{Min: ylo, Max: yhi}},
		Series: []gochart.Series{
			gochart.ContinuousSeries{Name: p.YLabel, XValues: xs, YValues: ys, Style: style},
		},
	}
	return ch.Render(gochart.PNG, w)
}

// pointStyle draws markers without connecting lines.
func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

// span returns the min and max of vals, padded when they coincide.
func span(vals []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		pad := math.Max(math.Abs(lo)*0.1, 1)
		return lo - pad, hi + pad
	}
	return lo, hi
}

// barGeometry fits n bars into the canvas width.
func barGeometry(canvas, n int) (width, spacing int) {
	if n <= 0 {
		return 50, 20
	}
	slot := (canvas - 120) / n
	spacing = max(slot/4, 2)
	width = max(slot-spacing, 4)
	return min(width, 50), spacing
}
