package table

import (
	"fmt"
	"strconv"
)

// Operator is a comparison operator. Only less-than is supported.
type Operator string

// LessThan keeps rows whose value is strictly below the threshold.
const LessThan Operator = "<"

// Condition is a parsed numeric filter such as "Age < 25".
type Condition struct {
	Column    string   `json:"column" yaml:"column"`
	Op        Operator `json:"op" yaml:"op"`
	Threshold float64  `json:"threshold" yaml:"threshold"`
}

// String renders the condition as "Age < 25".
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Column, c.Op, strconv.FormatFloat(c.Threshold, 'f', -1, 64))
}

// Match reports whether a cell satisfies the condition. Empty and
// non-numeric cells never match.
func (c Condition) Match(cell Cell) bool {
	if !cell.Numeric {
		return false
	}
	switch c.Op {
	case LessThan:
		return cell.Num < c.Threshold
	default:
		return false
	}
}

// Where returns the rows of t that satisfy cond. When the condition's column
// does not exist the result is empty.
func (t *Table) Where(cond Condition) *Table {
	col, ok := t.Column(cond.Column)
	if !ok {
		return t.Filter(func(int) bool { return false })
	}
	return t.Filter(func(row int) bool {
		return cond.Match(col.Cells[row])
	})
}
