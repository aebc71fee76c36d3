package chart_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tabletalk/pkg/chart"
	"github.com/leapstack-labs/tabletalk/pkg/table"
)

func people() *table.Table {
	return table.New("people.csv", []string{"Name", "Age", "Score", "City"}, [][]string{
		{"Ann", "10", "1.5", "Oslo"},
		{"Bob", "20", "2.5", "Rome"},
		{"Cid", "30", "3.5", "Oslo"},
	})
}

func TestValidate_Cardinality(t *testing.T) {
	accepts := map[chart.Kind][]int{
		chart.Pie:       {1},
		chart.Histogram: {1},
		chart.Scatter:   {2},
		chart.Bar:       {1, 2},
		chart.Line:      {1, 2},
	}
	cols := []string{"A", "B", "C", "D"}

	for kind, ok := range accepts {
		for n := 0; n <= 3; n++ {
			err := chart.Validate(kind, cols[:n])
			if contains(ok, n) {
				assert.NoError(t, err, "%s with %d columns", kind, n)
				continue
			}
			require.Error(t, err, "%s with %d columns", kind, n)
			assert.ErrorIs(t, err, chart.ErrChartValidation)
		}
	}
}

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		kind chart.Kind
		cols []string
		want string
	}{
		{chart.Scatter, []string{"A"}, "scatter plots require two columns"},
		{chart.Pie, []string{"A", "B"}, "pie charts require exactly one column"},
		{chart.Histogram, []string{"A", "B"}, "histograms require exactly one column"},
		{chart.Bar, []string{"A", "B", "C"}, "bar charts accept one or two columns"},
		{chart.Line, []string{"A", "B", "C"}, "line charts accept one or two columns"},
		{chart.Bar, nil, chart.NoColumnsMessage},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := chart.Validate(tt.kind, tt.cols)
			var verr *chart.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Message)
			assert.Equal(t, tt.kind, verr.Kind)
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		kind chart.Kind
		cols []string
		want string
	}{
		{chart.Bar, []string{"A"}, "Count of A"},
		{chart.Bar, []string{"A", "B"}, "B by A"},
		{chart.Pie, []string{"A"}, "Distribution of A"},
		{chart.Line, []string{"A"}, "A over index"},
		{chart.Line, []string{"A", "B"}, "B over A"},
		{chart.Scatter, []string{"A", "B"}, "B vs A"},
		{chart.Histogram, []string{"A"}, "Histogram of A"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, chart.Title(tt.kind, tt.cols))
	}
}

func TestBuild_AppliesCondition(t *testing.T) {
	cond := &table.Condition{Column: "Age", Op: table.LessThan, Threshold: 25}

	req, err := chart.Build(chart.Bar, []string{"Age"}, cond, people())
	require.NoError(t, err)

	assert.Equal(t, chart.Bar, req.Kind)
	assert.Equal(t, []string{"Age"}, req.Columns)
	assert.Equal(t, cond, req.Condition)
	assert.Equal(t, "Count of Age", req.Title)
	assert.Equal(t, "Displaying bar chart for Age", req.Caption())

	require.Equal(t, 2, req.Data.NumRows())
	age, _ := req.Data.Column("Age")
	assert.Equal(t, "10", age.Cells[0].Raw)
	assert.Equal(t, "20", age.Cells[1].Raw)
	assert.Equal(t, []string{"Age"}, req.Data.Columns())
}

func TestBuild_IgnoresConditionOnUnknownColumn(t *testing.T) {
	cond := &table.Condition{Column: "Height", Op: table.LessThan, Threshold: 2}

	req, err := chart.Build(chart.Line, []string{"Age", "Score"}, cond, people())
	require.NoError(t, err)
	assert.Nil(t, req.Condition)
	assert.Equal(t, 3, req.Data.NumRows())
	assert.Equal(t, "Displaying line chart for Age and Score", req.Caption())
}

func TestBuild_RejectsBadCardinality(t *testing.T) {
	req, err := chart.Build(chart.Pie, []string{"Age", "Score"}, nil, people())
	assert.Nil(t, req)
	assert.ErrorIs(t, err, chart.ErrChartValidation)
}

func TestParseKind(t *testing.T) {
	k, ok := chart.ParseKind("HIST")
	assert.True(t, ok)
	assert.Equal(t, chart.Histogram, k)

	k, ok = chart.ParseKind("scatter")
	assert.True(t, ok)
	assert.Equal(t, chart.Scatter, k)

	_, ok = chart.ParseKind("donut")
	assert.False(t, ok)
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
