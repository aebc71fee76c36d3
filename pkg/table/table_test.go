package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peopleTable() *Table {
	return New("people.csv", []string{"Name", "Age", "Note"}, [][]string{
		{"Ann", "10", ""},
		{"Bob", "20", ""},
		{"Cid", "30"},
		{"Dee", "n/a", ""},
	})
}

func TestNew_InfersTypes(t *testing.T) {
	tbl := New("", []string{"A", "B", "C"}, [][]string{
		{"1", "x", ""},
		{"2.5", "3", " "},
		{"-4", "", ""},
	})

	a, ok := tbl.Column("A")
	require.True(t, ok)
	assert.Equal(t, TypeNumber, a.Type)

	b, _ := tbl.Column("B")
	assert.Equal(t, TypeText, b.Type)

	c, _ := tbl.Column("C")
	assert.Equal(t, TypeEmpty, c.Type)
	assert.Equal(t, 0, c.NonEmpty())
}

func TestNew_PadsRaggedRows(t *testing.T) {
	tbl := peopleTable()

	assert.Equal(t, 4, tbl.NumRows())
	row := tbl.Row(2)
	require.Len(t, row, 3)
	assert.True(t, row[2].IsEmpty())
}

func TestTable_Empty(t *testing.T) {
	var nilTable *Table
	assert.True(t, nilTable.Empty())
	assert.True(t, New("", []string{"A"}, nil).Empty())
	assert.True(t, New("", nil, [][]string{{"1"}}).Empty())
	assert.False(t, peopleTable().Empty())
}

func TestTable_HeadTailClamp(t *testing.T) {
	tbl := peopleTable()

	tests := []struct {
		name     string
		got      *Table
		wantRows int
		first    string
	}{
		{"head 2", tbl.Head(2), 2, "Ann"},
		{"head beyond", tbl.Head(50), 4, "Ann"},
		{"head negative", tbl.Head(-1), 0, ""},
		{"tail 1", tbl.Tail(1), 1, "Dee"},
		{"tail beyond", tbl.Tail(10), 4, "Ann"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRows, tt.got.NumRows())
			if tt.wantRows > 0 {
				assert.Equal(t, tt.first, tt.got.Row(0)[0].Raw)
			}
		})
	}
}

func TestTable_WhereLessThan(t *testing.T) {
	tbl := peopleTable()

	got := tbl.Where(Condition{Column: "Age", Op: LessThan, Threshold: 25})

	require.Equal(t, 2, got.NumRows())
	assert.Equal(t, "Ann", got.Row(0)[0].Raw)
	assert.Equal(t, "Bob", got.Row(1)[0].Raw)
	// The original is untouched.
	assert.Equal(t, 4, tbl.NumRows())
}

func TestTable_WhereDropsNonNumeric(t *testing.T) {
	tbl := peopleTable()

	got := tbl.Where(Condition{Column: "Age", Op: LessThan, Threshold: 1000})

	assert.Equal(t, 3, got.NumRows(), "the n/a row is not comparable")
}

func TestTable_WhereUnknownColumn(t *testing.T) {
	got := peopleTable().Where(Condition{Column: "Height", Op: LessThan, Threshold: 1})
	assert.Equal(t, 0, got.NumRows())
	assert.Equal(t, []string{"Name", "Age", "Note"}, got.Columns())
}

func TestTable_Select(t *testing.T) {
	got := peopleTable().Select("Age", "Name", "Missing")

	assert.Equal(t, []string{"Age", "Name"}, got.Columns())
	assert.Equal(t, 4, got.NumRows())
}

func TestCondition_String(t *testing.T) {
	assert.Equal(t, "Age < 25", Condition{Column: "Age", Op: LessThan, Threshold: 25}.String())
	assert.Equal(t, "Price < 2.5", Condition{Column: "Price", Op: LessThan, Threshold: 2.5}.String())
}

func TestTable_Summary(t *testing.T) {
	tbl := New("/data/people.csv", []string{"Name", "Age"}, [][]string{{"Ann", "10"}, {"Bob", "20"}})
	assert.Equal(t, "Loaded people.csv with 2 rows and columns: Name, Age", tbl.Summary())
}
