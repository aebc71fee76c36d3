package stats

import (
	"math"
	"sort"

	"github.com/leapstack-labs/tabletalk/pkg/table"
)

// NumericSummary is the describe() row set for one numeric column.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64 // NaN when Count < 2
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// TextSummary is the describe() row set for one non-numeric column.
type TextSummary struct {
	Column string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// Summary is the result of Describe. When the table has at least one
// numeric column only Numeric is filled, otherwise only Text.
type Summary struct {
	Numeric []NumericSummary
	Text    []TextSummary
}

// Describe summarizes a table the way pandas' DataFrame.describe does:
// numeric columns get count, mean, std, min, quartiles and max; a table with
// no numeric column falls back to count, unique, top and freq.
func Describe(t *table.Table) Summary {
	var s Summary
	for _, col := range t.Schema() {
		if col.Type != table.TypeNumber {
			continue
		}
		vals, err := numbers("describe", col)
		if err != nil {
			continue
		}
		s.Numeric = append(s.Numeric, describeNumbers(col.Name, vals))
	}
	if len(s.Numeric) > 0 {
		return s
	}

	for _, col := range t.Schema() {
		ts := TextSummary{Column: col.Name}
		counts := ValueCounts(col)
		for _, c := range counts {
			ts.Count += c.Count
		}
		ts.Unique = len(counts)
		if len(counts) > 0 {
			ts.Top = counts[0].Value
			ts.Freq = counts[0].Count
		}
		s.Text = append(s.Text, ts)
	}
	return s
}

func describeNumbers(name string, vals []float64) NumericSummary {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	return NumericSummary{
		Column: name,
		Count:  len(vals),
		Mean:   mean(vals),
		Std:    sampleStd(vals),
		Min:    sorted[0],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	m := mean(vals)
	ss := 0.0
	for _, v := range vals {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

// Quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks. sorted must be ascending and
// non-empty.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
