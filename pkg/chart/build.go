// Package chart validates chart requests, turns them into plot data and
// rasterizes them to PNG.
package chart

import (
	"errors"
	"strings"

	"github.com/leapstack-labs/tabletalk/pkg/table"
)

// Kind is a chart type.
type Kind string

const (
	Bar       Kind = "bar"
	Pie       Kind = "pie"
	Line      Kind = "line"
	Scatter   Kind = "scatter"
	Histogram Kind = "histogram"
)

// Kinds lists every chart kind in keyword detection order.
var Kinds = []Kind{Pie, Bar, Line, Scatter, Histogram}

// Keyword returns the word that selects the kind in a query.
func (k Kind) Keyword() string {
	if k == Histogram {
		return "hist"
	}
	return string(k)
}

// ParseKind maps a user supplied name to a Kind. "hist" is accepted for
// histograms.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == string(k) || s == k.Keyword() {
			return k, true
		}
	}
	return "", false
}

// ErrChartValidation is the sentinel wrapped by every ValidationError.
var ErrChartValidation = errors.New("invalid chart request")

// NoColumnsMessage is reported when a chart was asked for without any
// recognizable column.
const NoColumnsMessage = "I couldn't determine which columns to visualize. Please specify column names."

// ValidationError reports a chart kind paired with the wrong number of
// columns.
type ValidationError struct {
	Kind    Kind
	Columns []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns ErrChartValidation.
func (e *ValidationError) Unwrap() error {
	return ErrChartValidation
}

// Request is a fully specified chart: kind, columns, optional filter and the
// data the chart is drawn from.
type Request struct {
	Kind      Kind             `json:"kind" yaml:"kind"`
	Columns   []string         `json:"columns" yaml:"columns"`
	Condition *table.Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
	Title     string           `json:"title" yaml:"title"`

	// Data holds the filtered rows restricted to Columns.
	Data *table.Table `json:"-" yaml:"-"`
}

// Caption is the line shown alongside a rendered chart.
func (r *Request) Caption() string {
	return "Displaying " + string(r.Kind) + " chart for " + strings.Join(r.Columns, " and ")
}

// Validate checks the column count against what the chart kind accepts.
func Validate(kind Kind, columns []string) error {
	n := len(columns)
	if n == 0 {
		return &ValidationError{Kind: kind, Message: NoColumnsMessage}
	}

	var msg string
	switch kind {
	case Scatter:
		if n != 2 {
			msg = "scatter plots require two columns"
		}
	case Pie:
		if n != 1 {
			msg = "pie charts require exactly one column"
		}
	case Histogram:
		if n != 1 {
			msg = "histograms require exactly one column"
		}
	case Bar, Line:
		if n > 2 {
			msg = string(kind) + " charts accept one or two columns"
		}
	default:
		msg = "unknown chart kind " + string(kind)
	}
	if msg != "" {
		return &ValidationError{Kind: kind, Columns: columns, Message: msg}
	}
	return nil
}

// Build validates a chart request and applies the condition to t.
//
// Rows whose condition value is not below the threshold, or is not a number,
// are dropped. A condition naming a column the table does not have is
// ignored.
func Build(kind Kind, columns []string, cond *table.Condition, t *table.Table) (*Request, error) {
	if err := Validate(kind, columns); err != nil {
		return nil, err
	}

	data := t
	if cond != nil {
		if _, ok := t.Column(cond.Column); ok {
			data = t.Where(*cond)
		} else {
			cond = nil
		}
	}

	return &Request{
		Kind:      kind,
		Columns:   append([]string(nil), columns...),
		Condition: cond,
		Title:     Title(kind, columns),
		Data:      data.Select(columns...),
	}, nil
}

// Title derives the chart title from kind and columns.
func Title(kind Kind, columns []string) string {
	if len(columns) == 0 {
		return ""
	}
	a := columns[0]
	b := ""
	if len(columns) > 1 {
		b = columns[1]
	}

	switch kind {
	case Bar:
		if b != "" {
			return b + " by " + a
		}
		return "Count of " + a
	case Pie:
		return "Distribution of " + a
	case Line:
		if b != "" {
			return b + " over " + a
		}
		return a + " over index"
	case Scatter:
		return b + " vs " + a
	case Histogram:
		return "Histogram of " + a
	}
	return ""
}
