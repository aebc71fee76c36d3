// Package query turns free text into a report, a statistic or a chart
// request against a loaded table.
//
// Resolution runs in three stages. The extractor finds column mentions and
// "below N" conditions, the classifier picks exactly one Intent from an
// ordered rule list, and the Resolver dispatches that intent to a handler
// whose result is normalized into a Response. No stage returns an error to
// the caller: failures become explanatory text.
package query

import "fmt"

// Intent is what a query asks for.
type Intent int

const (
	Unknown Intent = iota
	ShowColumns
	ShowHead
	ShowTail
	Describe
	ValueCounts
	Average
	Sum
	Correlation
	Filter
	Chart
)

var intentNames = [...]string{
	Unknown:     "unknown",
	ShowColumns: "show_columns",
	ShowHead:    "show_head",
	ShowTail:    "show_tail",
	Describe:    "describe",
	ValueCounts: "value_counts",
	Average:     "average",
	Sum:         "sum",
	Correlation: "correlation",
	Filter:      "filter",
	Chart:       "chart",
}

// Intents lists every intent.
func Intents() []Intent {
	out := make([]Intent, len(intentNames))
	for i := range intentNames {
		out[i] = Intent(i)
	}
	return out
}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return fmt.Sprintf("intent(%d)", int(i))
	}
	return intentNames[i]
}

// MarshalText encodes the intent by name.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes an intent name.
func (i *Intent) UnmarshalText(b []byte) error {
	for n, name := range intentNames {
		if name == string(b) {
			*i = Intent(n)
			return nil
		}
	}
	return fmt.Errorf("unknown intent %q", b)
}
