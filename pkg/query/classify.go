package query

import (
	"strings"

	"github.com/leapstack-labs/tabletalk/pkg/chart"
	"github.com/leapstack-labs/tabletalk/pkg/table"
)

// Signals is everything the classifier looks at for one query.
type Signals struct {
	// Text is the case-folded query.
	Text      string
	Columns   []string
	Condition *table.Condition
}

// NewSignals extracts the signals of text against a column list.
func NewSignals(e Extractor, text string, columns []string) Signals {
	return Signals{
		Text:      fold(text),
		Columns:   e.Columns(text, columns),
		Condition: e.Condition(text, columns),
	}
}

func (s Signals) has(words ...string) bool {
	for _, w := range words {
		if strings.Contains(s.Text, w) {
			return true
		}
	}
	return false
}

// ChartKind returns the chart kind named in the text, if any. Kinds are
// checked in chart.Kinds order.
func (s Signals) ChartKind() (chart.Kind, bool) {
	for _, k := range chart.Kinds {
		if strings.Contains(s.Text, k.Keyword()) {
			return k, true
		}
	}
	return "", false
}

type rule struct {
	intent Intent
	match  func(Signals) bool
}

// rules are evaluated in order and the first match wins. A chart keyword
// with a column outranks every statistics keyword.
var rules = []rule{
	{Chart, func(s Signals) bool {
		_, ok := s.ChartKind()
		return ok && len(s.Columns) > 0
	}},
	{ShowColumns, func(s Signals) bool { return s.has("columns", "headers") }},
	{ShowHead, func(s Signals) bool { return s.has("show first", "display first") }},
	{ShowTail, func(s Signals) bool { return s.has("show last", "display last") }},
	{Describe, func(s Signals) bool { return s.has("describe", "statistics") }},
	{ValueCounts, func(s Signals) bool { return s.has("count") && s.has("values") }},
	{Average, func(s Signals) bool { return s.has("average", "mean") }},
	{Sum, func(s Signals) bool { return s.has("sum") }},
	{Correlation, func(s Signals) bool { return s.has("correlation", "relationship") }},
	{Filter, func(s Signals) bool { return s.Condition != nil && hasComparison(s.Text) }},
	{Chart, func(s Signals) bool { return s.has("plot", "chart", "graph") }},
}

// Classify returns the intent of the first matching rule, or Unknown.
func Classify(s Signals) Intent {
	for _, r := range rules {
		if r.match(s) {
			return r.intent
		}
	}
	return Unknown
}
