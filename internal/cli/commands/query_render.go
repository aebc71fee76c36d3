package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/tabletalk/internal/cli/output"
	"github.com/leapstack-labs/tabletalk/pkg/query"
	data "github.com/leapstack-labs/tabletalk/pkg/table"
)

// responseView is a query response as printed in structured output.
type responseView struct {
	query.Response `yaml:",inline"`

	Outcome    string `json:"outcome" yaml:"outcome"`
	Message    string `json:"message" yaml:"message"`
	ChartPath  string `json:"chart_path,omitempty" yaml:"chart_path,omitempty"`
	ChartError string `json:"chart_error,omitempty" yaml:"chart_error,omitempty"`
}

// present renders any chart in resp to chartDir and, for text output,
// prints the response. A chart that cannot be drawn is reported, not fatal.
func (c *CommandContext) present(resp query.Response, chartDir string) responseView {
	view := responseView{
		Response: resp,
		Outcome:  resp.Outcome(),
		Message:  resp.Message(),
	}
	if resp.IsChart() {
		path, err := c.Charts.Save(resp.Chart, chartDir)
		if err != nil {
			c.Logger.Warn("chart rendering failed", "kind", resp.Chart.Kind, "error", err)
			view.ChartError = err.Error()
		}
		view.ChartPath = path
	}

	if c.Renderer.IsStructured() {
		return view
	}

	r := c.Renderer
	switch {
	case view.ChartError != "":
		r.Println(view.Message)
		r.Error("Error rendering chart: " + view.ChartError)
	case view.ChartPath != "" && r.EffectiveMode() == output.ModeMarkdown:
		r.Printf("![%s](%s)\n", view.Message, view.ChartPath)
	case view.ChartPath != "":
		r.Println(r.Styles().Bold.Render(view.Message))
		r.Muted("saved " + view.ChartPath)
	default:
		r.Println(view.Message)
	}
	return view
}

// columnInfo is one row of the columns listing.
type columnInfo struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	NonEmpty int    `json:"non_empty" yaml:"non_empty"`
}

func schemaOf(t *data.Table) []columnInfo {
	schema := t.Schema()
	out := make([]columnInfo, len(schema))
	for i, col := range schema {
		out[i] = columnInfo{Name: col.Name, Type: string(col.Type), NonEmpty: col.NonEmpty()}
	}
	return out
}

// renderSchema prints the columns of t with their inferred types.
func renderSchema(r *output.Renderer, t *data.Table) error {
	cols := schemaOf(t)
	if r.IsStructured() {
		return r.Structured(cols)
	}

	tw := newTableWriter(r)
	tw.AppendHeader(table.Row{"column", "type", "non-empty"})
	for _, col := range cols {
		tw.AppendRow(table.Row{col.Name, col.Type, col.NonEmpty})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	renderTableWriter(r, tw)
	r.Printf("(%d columns, %d rows)\n", len(cols), t.NumRows())
	return nil
}

// renderMetrics prints the per-intent query counters.
func renderMetrics(r *output.Renderer, m *query.Metrics) error {
	samples, err := m.Samples()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	if r.IsStructured() {
		if samples == nil {
			samples = []query.Sample{}
		}
		return r.Structured(samples)
	}
	if len(samples) == 0 {
		r.Println("(0 queries)")
		return nil
	}

	tw := newTableWriter(r)
	tw.AppendHeader(table.Row{"intent", "outcome", "count"})
	for _, s := range samples {
		tw.AppendRow(table.Row{s.Intent, s.Outcome, strconv.FormatFloat(s.Count, 'f', -1, 64)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	renderTableWriter(r, tw)
	return nil
}

func newTableWriter(r *output.Renderer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.Writer())
	tw.SetStyle(table.StyleLight)
	return tw
}

func renderTableWriter(r *output.Renderer, tw table.Writer) {
	if r.EffectiveMode() == output.ModeMarkdown {
		tw.RenderMarkdown()
		return
	}
	tw.Render()
}
