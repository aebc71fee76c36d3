package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/tabletalk/pkg/stats"
	data "github.com/leapstack-labs/tabletalk/pkg/table"
)

func newWriter() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

// renderRows draws rows of t as a text table. The index column starts at
// first so a tail keeps the row numbers of the full table.
func renderRows(t *data.Table, first int) string {
	return drawRows(t, true, first)
}

// renderRecords draws rows of t without an index column.
func renderRecords(t *data.Table) string {
	return drawRows(t, false, 0)
}

func drawRows(t *data.Table, index bool, first int) string {
	if t.NumRows() == 0 {
		return "(0 rows)"
	}
	w := newWriter()

	offset := 1
	var header table.Row
	if index {
		header = append(header, "")
		offset = 2
	}
	for _, name := range t.Columns() {
		header = append(header, name)
	}
	w.AppendHeader(header)

	align := make([]table.ColumnConfig, 0, len(t.Columns()))
	for i, col := range t.Schema() {
		if col.Type == data.TypeNumber {
			align = append(align, table.ColumnConfig{Number: i + offset, Align: text.AlignRight})
		}
	}
	w.SetColumnConfigs(align)

	for r := 0; r < t.NumRows(); r++ {
		var row table.Row
		if index {
			row = append(row, first+r)
		}
		for _, c := range t.Row(r) {
			row = append(row, c.String())
		}
		w.AppendRow(row)
	}
	return w.Render()
}

var describeRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

func renderDescribe(s stats.Summary) string {
	if len(s.Numeric) == 0 && len(s.Text) == 0 {
		return "(no columns)"
	}
	w := newWriter()

	if len(s.Numeric) > 0 {
		header := table.Row{""}
		for _, n := range s.Numeric {
			header = append(header, n.Column)
		}
		w.AppendHeader(header)
		for _, stat := range describeRows {
			row := table.Row{stat}
			for _, n := range s.Numeric {
				row = append(row, describeValue(n, stat))
			}
			w.AppendRow(row)
		}
		configs := make([]table.ColumnConfig, len(s.Numeric))
		for i := range configs {
			configs[i] = table.ColumnConfig{Number: i + 2, Align: text.AlignRight}
		}
		w.SetColumnConfigs(configs)
		return w.Render()
	}

	header := table.Row{""}
	for _, ts := range s.Text {
		header = append(header, ts.Column)
	}
	w.AppendHeader(header)
	rows := []struct {
		name string
		get  func(stats.TextSummary) any
	}{
		{"count", func(ts stats.TextSummary) any { return ts.Count }},
		{"unique", func(ts stats.TextSummary) any { return ts.Unique }},
		{"top", func(ts stats.TextSummary) any { return ts.Top }},
		{"freq", func(ts stats.TextSummary) any { return ts.Freq }},
	}
	for _, r := range rows {
		row := table.Row{r.name}
		for _, ts := range s.Text {
			row = append(row, r.get(ts))
		}
		w.AppendRow(row)
	}
	return w.Render()
}

func describeValue(n stats.NumericSummary, stat string) string {
	var v float64
	switch stat {
	case "count":
		return strconv.Itoa(n.Count)
	case "mean":
		v = n.Mean
	case "std":
		v = n.Std
	case "min":
		v = n.Min
	case "25%":
		v = n.Q1
	case "50%":
		v = n.Median
	case "75%":
		v = n.Q3
	case "max":
		v = n.Max
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func renderValueCounts(column string, counts []stats.Count) string {
	if len(counts) == 0 {
		return "(no values)"
	}
	w := newWriter()
	w.AppendHeader(table.Row{column, "count"})
	for _, c := range counts {
		w.AppendRow(table.Row{c.Value, c.Count})
	}
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	return w.Render()
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
