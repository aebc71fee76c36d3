package table_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tabletalk/internal/testutil"
	"github.com/leapstack-labs/tabletalk/pkg/table"
)

func TestLoad_CSV(t *testing.T) {
	path := testutil.WriteCSV(t, t.TempDir(), "people.csv", testutil.PeopleRows())

	tbl, err := table.Load(path, table.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Age", "Score", "City"}, tbl.Columns())
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, path, tbl.Source())

	age, ok := tbl.Column("Age")
	require.True(t, ok)
	assert.Equal(t, table.TypeNumber, age.Type)
	city, _ := tbl.Column("City")
	assert.Equal(t, table.TypeText, city.Type)
}

func TestLoad_TSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.tsv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffA\tB\n1\t2\n"), 0o644))

	tbl, err := table.Load(path, table.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tbl.Columns())
}

func TestLoad_XLSX(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteXLSX(t, dir, "people.xlsx", "", [][]any{
		{"Age", "Score"},
		{10, 1.5},
		{20, 2.5},
		{30, 3.5},
	})

	tbl, err := table.Load(path, table.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Age", "Score"}, tbl.Columns())
	assert.Equal(t, 3, tbl.NumRows())
	age, _ := tbl.Column("Age")
	assert.Equal(t, table.TypeNumber, age.Type)
	assert.InDelta(t, 20.0, age.Cells[1].Num, 1e-9)
}

func TestLoad_XLSXSheetSelection(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteXLSX(t, dir, "book.xlsx", "Sales", [][]any{
		{"Region", "Total"},
		{"North", 5},
	})

	tbl, err := table.Load(path, table.LoadOptions{Sheet: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())

	_, err = table.Load(path, table.LoadOptions{Sheet: "Missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrLoad)
	assert.Contains(t, err.Error(), "Missing")
}

func TestLoad_NoHeaderRow(t *testing.T) {
	path := testutil.WriteCSV(t, t.TempDir(), "raw.csv", [][]string{
		{"1", "2"},
		{"3", "4"},
	})

	tbl, err := table.Load(path, table.LoadOptions{NoHeaderRow: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Unnamed_A", "Unnamed_B"}, tbl.Columns())
	assert.Equal(t, 2, tbl.NumRows())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	xls := filepath.Join(dir, "old.xls")
	require.NoError(t, os.WriteFile(xls, []byte("binary"), 0o644))
	corrupt := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0o644))

	tests := []struct {
		name        string
		path        string
		unsupported bool
	}{
		{name: "empty path", path: ""},
		{name: "missing file", path: filepath.Join(dir, "nope.csv")},
		{name: "legacy xls", path: xls, unsupported: true},
		{name: "unknown extension", path: filepath.Join(dir, "data.parquet"), unsupported: true},
		{name: "corrupt workbook", path: corrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := table.Load(tt.path, table.LoadOptions{})
			require.Error(t, err)
			assert.Nil(t, tbl)
			assert.ErrorIs(t, err, table.ErrLoad)

			var loadErr *table.LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.path, loadErr.Path)
			assert.Equal(t, tt.unsupported, errors.Is(err, table.ErrUnsupportedFormat))
		})
	}
}

func TestNormalizeHeaders(t *testing.T) {
	got := table.NormalizeHeaders([]string{"name", "", "age", "age", " ", "age"})
	assert.Equal(t, []string{"name", "Unnamed_A", "age", "age.1", "Unnamed_B", "age.2"}, got)
}

func TestSupported(t *testing.T) {
	for _, path := range []string{"a.csv", "B.TSV", "dir/report.xlsx", "macro.xlsm"} {
		assert.True(t, table.Supported(path), path)
	}
	for _, path := range []string{"old.xls", "notes.txt", "csv", ""} {
		assert.False(t, table.Supported(path), path)
	}
}
