// Package stats computes the aggregates tabletalk reports: mean, sum,
// Pearson correlation, value counts and describe-style summaries.
//
// Empty cells are skipped the way pandas skips NaN. A non-empty cell that is
// not a number makes numeric aggregates fail with a ComputationError.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/leapstack-labs/tabletalk/pkg/table"
)

// ErrComputation is the sentinel wrapped by every ComputationError.
var ErrComputation = errors.New("computation failed")

// ComputationError reports an aggregate that cannot be computed for a column.
type ComputationError struct {
	Op     string
	Column string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("cannot compute %s of %s: %s", e.Op, e.Column, e.Reason)
}

// Unwrap returns ErrComputation.
func (e *ComputationError) Unwrap() error {
	return ErrComputation
}

// numbers returns the numeric values of a column, skipping empty cells.
func numbers(op string, col *table.Column) ([]float64, error) {
	vals, err := presentNumbers(op, col)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, &ComputationError{Op: op, Column: col.Name, Reason: "column has no numeric values"}
	}
	return vals, nil
}

// presentNumbers returns the non-empty values of col, which must all be
// numeric.
func presentNumbers(op string, col *table.Column) ([]float64, error) {
	vals := make([]float64, 0, len(col.Cells))
	for _, c := range col.Cells {
		if c.IsEmpty() {
			continue
		}
		if !c.Numeric {
			return nil, &ComputationError{Op: op, Column: col.Name, Reason: fmt.Sprintf("column is not numeric (found %q)", c.Raw)}
		}
		vals = append(vals, c.Num)
	}
	return vals, nil
}

// Mean returns the arithmetic mean of a numeric column.
func Mean(col *table.Column) (float64, error) {
	vals, err := numbers("mean", col)
	if err != nil {
		return 0, err
	}
	return mean(vals), nil
}

// Sum returns the sum of a numeric column. A column with no values sums to 0.
func Sum(col *table.Column) (float64, error) {
	vals, err := presentNumbers("sum", col)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total, nil
}

// Pearson returns the correlation coefficient of two numeric columns over
// the rows where both are present.
func Pearson(x, y *table.Column) (float64, error) {
	op := "correlation"
	if _, err := numbers(op, x); err != nil {
		return 0, err
	}
	if _, err := numbers(op, y); err != nil {
		return 0, err
	}

	var xs, ys []float64
	for i := range x.Cells {
		if i >= len(y.Cells) {
			break
		}
		if x.Cells[i].Numeric && y.Cells[i].Numeric {
			xs = append(xs, x.Cells[i].Num)
			ys = append(ys, y.Cells[i].Num)
		}
	}
	name := x.Name + " and " + y.Name
	if len(xs) < 2 {
		return 0, &ComputationError{Op: op, Column: name, Reason: "fewer than two paired values"}
	}

	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, &ComputationError{Op: op, Column: name, Reason: "a column has zero variance"}
	}
	r := sxy / math.Sqrt(sxx*syy)
	// Guard against rounding pushing |r| past 1.
	return math.Max(-1, math.Min(1, r)), nil
}

// Count is one entry of a value-count result.
type Count struct {
	Value string
	Count int
}

// ValueCounts counts the distinct non-empty values of a column, most
// frequent first. Ties keep first-appearance order.
func ValueCounts(col *table.Column) []Count {
	index := make(map[string]int)
	var counts []Count
	for _, c := range col.Cells {
		if c.IsEmpty() {
			continue
		}
		if i, ok := index[c.Raw]; ok {
			counts[i].Count++
			continue
		}
		index[c.Raw] = len(counts)
		counts = append(counts, Count{Value: c.Raw, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

func mean(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total / float64(len(vals))
}
