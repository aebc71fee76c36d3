package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/tabletalk/internal/cli/config"
	"github.com/leapstack-labs/tabletalk/internal/cli/output"
	clitestutil "github.com/leapstack-labs/tabletalk/internal/cli/testutil"
	"github.com/leapstack-labs/tabletalk/internal/testutil"
	"github.com/leapstack-labs/tabletalk/pkg/query"
	"github.com/leapstack-labs/tabletalk/pkg/table"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a text-mode config pointing at a fresh people.csv.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.OutputFormat = config.OutputText
	cfg.File = testutil.WriteCSV(t, dir, "people.csv", testutil.PeopleRows())
	cfg.Chart.Dir = filepath.Join(dir, "charts")
	cfg.HistoryFile = filepath.Join(dir, "history")
	return cfg
}

// runCommand executes cmd with cfg in its context, the way the root command
// prepares it, and returns stdout and stderr.
func runCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = context.WithValue(ctx, config.LoggerKey(), testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestNewQueryCommand(t *testing.T) {
	cmd := NewQueryCommand()

	assert.Equal(t, "query [TEXT...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"chart-out", "input"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewColumnsCommand(t *testing.T) {
	cmd := NewColumnsCommand()

	assert.Equal(t, "columns", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
}

func TestColumnsCommand_Text(t *testing.T) {
	cfg := testConfig(t)

	out, _, err := runCommand(t, NewColumnsCommand(), cfg, "")
	require.NoError(t, err)

	assert.Contains(t, out, "Loaded people.csv with 3 rows and columns: Name, Age, Score, City")
	assert.Contains(t, out, "number")
	assert.Contains(t, out, "text")
	assert.Contains(t, out, "(4 columns, 3 rows)")
}

func TestColumnsCommand_JSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFormat = config.OutputJSON

	out, _, err := runCommand(t, NewColumnsCommand(), cfg, "")
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"name":"Name","type":"text","non_empty":3},
		{"name":"Age","type":"number","non_empty":3},
		{"name":"Score","type":"number","non_empty":3},
		{"name":"City","type":"text","non_empty":3}
	]`, out)
}

func TestColumnsCommand_NoFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.File = ""

	_, _, err := runCommand(t, NewColumnsCommand(), cfg, "")
	require.ErrorIs(t, err, errNoFile)
}

func TestRenderSchema_Markdown(t *testing.T) {
	tr := clitestutil.NewTestRenderer(output.ModeMarkdown)
	tbl := table.New("people.csv", []string{"Name", "Age"}, [][]string{{"Ann", "10"}, {"Bob", ""}})

	require.NoError(t, renderSchema(tr.Renderer, tbl))

	md := tr.Output()
	clitestutil.AssertNoANSI(t, md)
	clitestutil.AssertValidMarkdown(t, md)
	assert.Contains(t, md, "| Age ")
	assert.Contains(t, md, "(2 columns, 2 rows)")
}

func TestRenderMetrics(t *testing.T) {
	m := query.NewMetrics()

	tr := clitestutil.NewTestRenderer(output.ModeText)
	require.NoError(t, renderMetrics(tr.Renderer, m))
	assert.Equal(t, "(0 queries)\n", tr.Output())

	tr = clitestutil.NewTestRenderer(output.ModeJSON)
	require.NoError(t, renderMetrics(tr.Renderer, m))
	assert.JSONEq(t, `[]`, tr.Output())
}
