package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/leapstack-labs/tabletalk/pkg/stats"
	"github.com/leapstack-labs/tabletalk/pkg/table"
)

// HistogramBins is the number of equal-width bins a histogram uses.
const HistogramBins = 10

// OtherLabel collects the categories past the category limit.
const OtherLabel = "Other"

// ErrNoPlotData is returned when the filtered data leaves nothing to draw.
var ErrNoPlotData = errors.New("no data to plot")

// Plot is the renderer-neutral data of a chart. Categorical kinds (bar, pie,
// histogram) fill Labels and Values; continuous kinds (line, scatter) fill
// X and Y.
type Plot struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string

	Labels []string
	Values []float64

	X []float64
	Y []float64
}

// PlotData computes what a request draws. maxCategories caps the number of
// bars or slices; the rest are folded into an "Other" entry. Zero means no
// cap.
func PlotData(req *Request, maxCategories int) (*Plot, error) {
	if req.Data == nil || len(req.Columns) == 0 {
		return nil, ErrNoPlotData
	}
	cols := make([]*table.Column, len(req.Columns))
	for i, name := range req.Columns {
		c, ok := req.Data.Column(name)
		if !ok {
			return nil, fmt.Errorf("column %q missing from chart data", name)
		}
		cols[i] = c
	}

	p := &Plot{Kind: req.Kind, Title: req.Title, XLabel: req.Columns[0]}
	var err error
	switch {
	case req.Kind == Bar && len(cols) == 1:
		p.YLabel = "count"
		p.Labels, p.Values = counts(cols[0])
	case req.Kind == Bar:
		p.YLabel = cols[1].Name
		p.Labels, p.Values, err = groupedSums(cols[0], cols[1])
	case req.Kind == Pie:
		p.Labels, p.Values = counts(cols[0])
	case req.Kind == Line && len(cols) == 1:
		p.XLabel, p.YLabel = "index", cols[0].Name
		p.X, p.Y, err = indexed(cols[0])
	case req.Kind == Line, req.Kind == Scatter:
		p.YLabel = cols[1].Name
		p.X, p.Y, err = paired(cols[0], cols[1])
	case req.Kind == Histogram:
		p.YLabel = "frequency"
		p.Labels, p.Values, err = histogram(cols[0], HistogramBins)
	default:
		return nil, &ValidationError{Kind: req.Kind, Columns: req.Columns, Message: "unknown chart kind " + string(req.Kind)}
	}
	if err != nil {
		return nil, err
	}
	if len(p.Values) == 0 && len(p.Y) == 0 {
		return nil, ErrNoPlotData
	}

	if req.Kind != Histogram {
		p.Labels, p.Values = capCategories(p.Labels, p.Values, maxCategories)
	}
	if req.Kind == Pie {
		p.Labels = percentLabels(p.Labels, p.Values)
	}
	return p, nil
}

func counts(col *table.Column) ([]string, []float64) {
	vc := stats.ValueCounts(col)
	labels := make([]string, len(vc))
	values := make([]float64, len(vc))
	for i, c := range vc {
		labels[i] = c.Value
		values[i] = float64(c.Count)
	}
	return labels, values
}

// groupedSums sums y per distinct x, in first-appearance order of x.
func groupedSums(x, y *table.Column) ([]string, []float64, error) {
	if err := requireNumeric("sum", y); err != nil {
		return nil, nil, err
	}
	index := make(map[string]int)
	var labels []string
	var values []float64
	for i, xc := range x.Cells {
		if xc.IsEmpty() || !y.Cells[i].Numeric {
			continue
		}
		j, ok := index[xc.Raw]
		if !ok {
			j = len(labels)
			index[xc.Raw] = j
			labels = append(labels, xc.Raw)
			values = append(values, 0)
		}
		values[j] += y.Cells[i].Num
	}
	return labels, values, nil
}

func indexed(col *table.Column) ([]float64, []float64, error) {
	if err := requireNumeric("line", col); err != nil {
		return nil, nil, err
	}
	var xs, ys []float64
	for i, c := range col.Cells {
		if c.Numeric {
			xs = append(xs, float64(i))
			ys = append(ys, c.Num)
		}
	}
	return xs, ys, nil
}

func paired(x, y *table.Column) ([]float64, []float64, error) {
	for _, c := range []*table.Column{x, y} {
		if err := requireNumeric("plot", c); err != nil {
			return nil, nil, err
		}
	}
	var xs, ys []float64
	for i := range x.Cells {
		if x.Cells[i].Numeric && y.Cells[i].Numeric {
			xs = append(xs, x.Cells[i].Num)
			ys = append(ys, y.Cells[i].Num)
		}
	}
	return xs, ys, nil
}

// histogram splits the numeric values of col into equal-width bins. A column
// holding a single distinct value gets a range padded by 0.5, or by a part in
// 1e9 of the value when 0.5 would be lost to rounding.
func histogram(col *table.Column, bins int) ([]string, []float64, error) {
	if err := requireNumeric("histogram", col); err != nil {
		return nil, nil, err
	}
	var vals []float64
	for _, c := range col.Cells {
		if c.Numeric {
			vals = append(vals, c.Num)
		}
	}
	if len(vals) == 0 {
		return nil, nil, nil
	}

	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		d := math.Max(0.5, math.Abs(lo)*1e-9)
		lo, hi = lo-d, hi+d
	}
	width := (hi - lo) / float64(bins)

	values := make([]float64, bins)
	for _, v := range vals {
		values[binIndex(v, lo, width, bins)]++
	}
	labels := make([]string, bins)
	for i := range labels {
		labels[i] = formatEdge(lo+float64(i)*width) + "-" + formatEdge(lo+float64(i+1)*width)
	}
	return labels, values, nil
}

// binIndex places v in [0, bins). A degenerate width puts every value in
// the first bin.
func binIndex(v, lo, width float64, bins int) int {
	if width <= 0 || math.IsInf(width, 0) || math.IsNaN(width) {
		return 0
	}
	f := (v - lo) / width
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f >= float64(bins):
		return bins - 1
	}
	return int(f)
}

func requireNumeric(op string, col *table.Column) error {
	for _, c := range col.Cells {
		if !c.IsEmpty() && !c.Numeric {
			return &stats.ComputationError{Op: op, Column: col.Name, Reason: fmt.Sprintf("column is not numeric (found %q)", c.Raw)}
		}
	}
	return nil
}

func capCategories(labels []string, values []float64, limit int) ([]string, []float64) {
	if limit <= 0 || len(labels) <= limit {
		return labels, values
	}
	rest := 0.0
	for _, v := range values[limit-1:] {
		rest += v
	}
	labels = append(labels[:limit-1:limit-1], OtherLabel)
	values = append(values[:limit-1:limit-1], rest)
	return labels, values
}

func percentLabels(labels []string, values []float64) []string {
	total := 0.0
	for _, v := range values {
		total += v
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		pct := 0.0
		if total != 0 {
			pct = values[i] / total * 100
		}
		out[i] = fmt.Sprintf("%s (%.1f%%)", l, pct)
	}
	return out
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
