package query

import (
	"errors"

	"github.com/leapstack-labs/tabletalk/pkg/chart"
)

var (
	// ErrNoData is recorded when a query arrives before any table is loaded.
	ErrNoData = errors.New("no data loaded")
	// ErrColumnNotFound is recorded when an intent needs a column the query
	// does not name.
	ErrColumnNotFound = errors.New("column not found")
)

const (
	// NoDataMessage answers every query while no table is loaded.
	NoDataMessage = "Please load a data file first."
	// FallbackMessage answers queries that resolve to nothing specific.
	FallbackMessage = "I've processed your request but didn't find specific information. Try asking about specific columns or values."
	// ValueCountsFallback answers a value-count query without a column.
	ValueCountsFallback = "Please specify which column to count values for. Available columns: "
)

// Response is the result of one query: either display text or a chart
// request, never both.
type Response struct {
	ID     string         `json:"id" yaml:"id"`
	Intent Intent         `json:"intent" yaml:"intent"`
	Text   string         `json:"text,omitempty" yaml:"text,omitempty"`
	Chart  *chart.Request `json:"chart,omitempty" yaml:"chart,omitempty"`

	// Err classifies a failure that was turned into Text.
	Err error `json:"-" yaml:"-"`
}

// IsChart reports whether the response carries a chart request.
func (r Response) IsChart() bool {
	return r.Chart != nil
}

// Message is the text to show for the response. Chart responses show their
// caption.
func (r Response) Message() string {
	if r.Chart != nil {
		return r.Chart.Caption()
	}
	return r.Text
}

// Outcome names the kind of result for logs and metrics.
func (r Response) Outcome() string {
	switch {
	case errors.Is(r.Err, ErrNoData):
		return "no_data"
	case errors.Is(r.Err, ErrColumnNotFound):
		return "column_not_found"
	case errors.Is(r.Err, chart.ErrChartValidation):
		return "chart_invalid"
	case r.Err != nil:
		return "error"
	case r.Chart != nil:
		return "chart"
	case r.Intent == Unknown:
		return "fallback"
	}
	return "text"
}
