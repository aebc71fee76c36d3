package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/tabletalk/pkg/chart"
	"github.com/leapstack-labs/tabletalk/pkg/stats"
	"github.com/leapstack-labs/tabletalk/pkg/table"
)

// DefaultPreviewRows is how many rows "show first" and "show last" print
// when the query gives no "<N> rows".
const DefaultPreviewRows = 5

// Options configures a Resolver.
type Options struct {
	PreviewRows int
	// WholeWord makes column mentions match whole words only.
	WholeWord bool
	Logger    *slog.Logger
	Metrics   *Metrics
}

// Resolver answers queries against a table snapshot.
type Resolver struct {
	opts      Options
	extractor Extractor
	logger    *slog.Logger
}

// NewResolver creates a resolver.
func NewResolver(opts Options) *Resolver {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		opts:      opts,
		extractor: Extractor{WholeWord: opts.WholeWord},
		logger:    logger,
	}
}

// Resolve answers text against t. It returns false for an empty or blank
// query, which produces no response at all. Every other query gets a
// Response; failures are reported in its text and classified in Err.
func (r *Resolver) Resolve(ctx context.Context, text string, t *table.Table) (Response, bool) {
	if strings.TrimSpace(text) == "" {
		return Response{}, false
	}
	start := time.Now()
	id := uuid.NewString()
	logger := r.logger.With("query_id", id)

	var resp Response
	if t.Empty() {
		resp = Response{Intent: Unknown, Text: NoDataMessage, Err: ErrNoData}
	} else {
		sig := NewSignals(r.extractor, text, t.Columns())
		intent := Classify(sig)
		logger.DebugContext(ctx, "classified query",
			"intent", intent.String(),
			"columns", sig.Columns,
			"condition", conditionAttr(sig.Condition))
		resp = r.dispatch(intent, sig, t)
		resp.Intent = intent
	}
	resp.ID = id

	elapsed := time.Since(start)
	r.opts.Metrics.record(resp, elapsed)
	logger.InfoContext(ctx, "resolved query",
		"intent", resp.Intent.String(),
		"outcome", resp.Outcome(),
		"duration", elapsed)
	if resp.Err != nil {
		logger.DebugContext(ctx, "query degraded to text", "error", resp.Err)
	}
	return resp, true
}

func (r *Resolver) dispatch(intent Intent, sig Signals, t *table.Table) Response {
	switch intent {
	case ShowColumns:
		return Response{Text: "The columns in the data are: " + joinColumns(t.Columns())}
	case ShowHead:
		n := previewRows(sig.Text, r.opts.PreviewRows)
		return Response{Text: renderRows(t.Head(n), 0)}
	case ShowTail:
		tail := t.Tail(previewRows(sig.Text, r.opts.PreviewRows))
		return Response{Text: renderRows(tail, t.NumRows()-tail.NumRows())}
	case Describe:
		return Response{Text: renderDescribe(stats.Describe(t))}
	case ValueCounts:
		return r.valueCounts(sig, t)
	case Average:
		return r.aggregate(sig, t, "average", stats.Mean)
	case Sum:
		return r.aggregate(sig, t, "total", stats.Sum)
	case Correlation:
		return r.correlation(sig, t)
	case Filter:
		return r.filter(sig, t)
	case Chart:
		return r.chart(sig, t)
	}
	return Response{Text: FallbackMessage}
}

func (r *Resolver) valueCounts(sig Signals, t *table.Table) Response {
	if len(sig.Columns) == 0 {
		return Response{
			Text: ValueCountsFallback + joinColumns(t.Columns()),
			Err:  ErrColumnNotFound,
		}
	}
	col, _ := t.Column(sig.Columns[0])
	return Response{Text: renderValueCounts(col.Name, stats.ValueCounts(col))}
}

func (r *Resolver) aggregate(sig Signals, t *table.Table, label string, fn func(*table.Column) (float64, error)) Response {
	if len(sig.Columns) == 0 {
		return Response{Text: FallbackMessage, Err: ErrColumnNotFound}
	}
	col, _ := t.Column(sig.Columns[0])
	v, err := fn(col)
	if err != nil {
		return failure(err)
	}
	return Response{Text: fmt.Sprintf("The %s %s is %.2f", label, col.Name, v)}
}

func (r *Resolver) correlation(sig Signals, t *table.Table) Response {
	if len(sig.Columns) < 2 {
		return Response{Text: FallbackMessage, Err: ErrColumnNotFound}
	}
	a, b := sig.Columns[0], sig.Columns[1]
	x, _ := t.Column(a)
	y, _ := t.Column(b)
	v, err := stats.Pearson(x, y)
	if err != nil {
		return failure(err)
	}
	return Response{Text: fmt.Sprintf("The correlation between %s and %s is %.2f. [VISUALIZATION: scatter(%s, %s)]", a, b, v, a, b)}
}

func (r *Resolver) filter(sig Signals, t *table.Table) Response {
	matched := t.Where(*sig.Condition)
	if matched.NumRows() == 0 {
		return Response{Text: fmt.Sprintf("No entries where %s.", sig.Condition)}
	}
	return Response{Text: fmt.Sprintf("Entries where %s:\n%s", sig.Condition, renderRecords(matched))}
}

func (r *Resolver) chart(sig Signals, t *table.Table) Response {
	kind, ok := sig.ChartKind()
	if !ok {
		kind = chart.Bar
	}
	req, err := chart.Build(kind, sig.Columns, sig.Condition, t)
	if err != nil {
		return failure(err)
	}
	return Response{Chart: req}
}

// failure turns a handler error into a text response.
func failure(err error) Response {
	var verr *chart.ValidationError
	if errors.As(err, &verr) {
		return Response{Text: verr.Message, Err: err}
	}
	return Response{Text: "Error processing query: " + err.Error(), Err: err}
}

func conditionAttr(c *table.Condition) string {
	if c == nil {
		return ""
	}
	return c.String()
}
