package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/tabletalk/internal/cli/config"
	"github.com/leapstack-labs/tabletalk/internal/testutil"
	"github.com/leapstack-labs/tabletalk/pkg/table"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestQuery_OneShotText(t *testing.T) {
	cfg := testConfig(t)

	out, _, err := runCommand(t, NewQueryCommand(), cfg, "", "what", "is", "the", "average", "Age")
	require.NoError(t, err)

	assert.Contains(t, out, "Loaded people.csv with 3 rows and columns: Name, Age, Score, City")
	assert.Contains(t, out, "The average Age is 20.00")
}

func TestQuery_OneShotJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFormat = config.OutputJSON

	out, _, err := runCommand(t, NewQueryCommand(), cfg, "", "sum of Score")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got), "output should be a single JSON object: %s", out)
	assert.Equal(t, "sum", got["intent"])
	assert.Equal(t, "text", got["outcome"])
	assert.Equal(t, "The total Score is 7.50", got["message"])
	assert.NotEmpty(t, got["id"])
}

func TestQuery_NoFileAnswersNoData(t *testing.T) {
	cfg := testConfig(t)
	cfg.File = ""

	out, _, err := runCommand(t, NewQueryCommand(), cfg, "", "average Age")
	require.NoError(t, err)
	assert.Contains(t, out, "Please load a data file first.")
}

func TestQuery_LoadFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.File = filepath.Join(t.TempDir(), "missing.csv")

	_, _, err := runCommand(t, NewQueryCommand(), cfg, "", "average Age")
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrLoad)
}

func TestQuery_PipedLinesJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFormat = config.OutputJSON

	out, _, err := runCommand(t, NewQueryCommand(), cfg, "columns\n\n   \nsum Score\n")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2, "blank lines produce no response")
	assert.Equal(t, "show_columns", got[0]["intent"])
	assert.Equal(t, "The columns in the data are: Name, Age, Score, City", got[0]["message"])
	assert.Equal(t, "sum", got[1]["intent"])
}

func TestQuery_EmptyPipeJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFormat = config.OutputJSON

	out, _, err := runCommand(t, NewQueryCommand(), cfg, "")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestQuery_InputFile(t *testing.T) {
	cfg := testConfig(t)
	input := filepath.Join(t.TempDir(), "questions.txt")
	require.NoError(t, os.WriteFile(input, []byte("average Age\ncount values in City\n"), 0600))

	out, _, err := runCommand(t, NewQueryCommand(), cfg, "", "--input", input)
	require.NoError(t, err)

	assert.Contains(t, out, "The average Age is 20.00")
	assert.Contains(t, out, "Oslo")
}

func TestQuery_ChartText(t *testing.T) {
	cfg := testConfig(t)

	out, _, err := runCommand(t, NewQueryCommand(), cfg, "", "bar chart of City")
	require.NoError(t, err)

	assert.Contains(t, out, "Displaying bar chart for City")
	assert.Contains(t, out, "saved ")

	files, err := filepath.Glob(filepath.Join(cfg.Chart.Dir, "bar-*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestQuery_ChartOutYAML(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFormat = config.OutputYAML
	chartOut := filepath.Join(t.TempDir(), "pngs")

	out, _, err := runCommand(t, NewQueryCommand(), cfg, "", "--chart-out", chartOut, "pie chart of City")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "chart", got["intent"])
	assert.Equal(t, "chart", got["outcome"])
	assert.Equal(t, "Displaying pie chart for City", got["message"])

	path, ok := got["chart_path"].(string)
	require.True(t, ok, "chart_path should be set: %s", out)
	assert.Equal(t, chartOut, filepath.Dir(path))
	assert.FileExists(t, path)
}

func TestQuery_ChartFailureIsReported(t *testing.T) {
	cfg := testConfig(t)

	// No row has Age below 5, so there is nothing to draw.
	out, errOut, err := runCommand(t, NewQueryCommand(), cfg, "", "histogram of Age below 5")
	require.NoError(t, err)

	assert.Contains(t, out, "Displaying histogram chart for Age")
	assert.Contains(t, errOut, "Error rendering chart")
}

func TestQuery_ValidationMessage(t *testing.T) {
	cfg := testConfig(t)

	out, _, err := runCommand(t, NewQueryCommand(), cfg, "", "draw a pie chart")
	require.NoError(t, err)
	assert.Contains(t, out, "I couldn't determine which columns to visualize. Please specify column names.")
}

// newTestREPL builds a REPL session without a terminal.
func newTestREPL(t *testing.T, cfg *config.Config) (*repl, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(config.WithConfig(context.Background(), cfg))

	return &repl{
		cmdCtx:   NewCommandContext(cmd),
		out:      &out,
		errOut:   &errOut,
		chartDir: cfg.Chart.Dir,
	}, &out, &errOut
}

func TestREPL_DotCommands(t *testing.T) {
	cfg := testConfig(t)
	s, out, errOut := newTestREPL(t, cfg)
	ctx := context.Background()

	assert.False(t, s.handleDotCommand(ctx, ".columns"))
	assert.Contains(t, errOut.String(), "No table loaded")

	assert.False(t, s.handleDotCommand(ctx, ".load"))
	assert.Contains(t, errOut.String(), "Usage: .load <path>")

	assert.False(t, s.handleDotCommand(ctx, ".load "+cfg.File))
	assert.Contains(t, out.String(), "Loaded people.csv with 3 rows")

	out.Reset()
	assert.False(t, s.handleDotCommand(ctx, ".columns"))
	assert.Contains(t, out.String(), "(4 columns, 3 rows)")

	require.NoError(t, s.cmdCtx.answerOne(ctx, "average Age", s.chartDir))
	out.Reset()
	assert.False(t, s.handleDotCommand(ctx, ".metrics"))
	assert.Contains(t, out.String(), "average")

	out.Reset()
	assert.False(t, s.handleDotCommand(ctx, ".help"))
	assert.Contains(t, out.String(), ".load <path>")

	assert.False(t, s.handleDotCommand(ctx, ".bogus"))
	assert.Contains(t, errOut.String(), "Unknown command: .bogus")

	assert.True(t, s.handleDotCommand(ctx, ".quit"))
	assert.True(t, s.handleDotCommand(ctx, ".EXIT"))
}

func TestREPL_LoadFailureClearsTable(t *testing.T) {
	cfg := testConfig(t)
	s, _, errOut := newTestREPL(t, cfg)
	ctx := context.Background()

	s.load(ctx, cfg.File)
	require.NotNil(t, s.cmdCtx.Store.Snapshot())

	s.load(ctx, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Contains(t, errOut.String(), "failed to load")
	assert.Nil(t, s.cmdCtx.Store.Snapshot())
}

func TestREPL_LoadFailureKeepsTable(t *testing.T) {
	cfg := testConfig(t)
	cfg.KeepOnLoadFailure = true
	s, _, _ := newTestREPL(t, cfg)
	ctx := context.Background()

	s.load(ctx, cfg.File)
	s.load(ctx, filepath.Join(t.TempDir(), "missing.csv"))
	assert.NotNil(t, s.cmdCtx.Store.Snapshot())
}

func TestQuestionCompleter(t *testing.T) {
	c := &questionCompleter{
		commands: (&repl{}).completer().(*questionCompleter).commands,
		columns:  func() []string { return []string{"Age", "Area", "City"} },
	}

	line := []rune("average A")
	got, length := c.Do(line, len(line))
	assert.Equal(t, 1, length)
	assert.ElementsMatch(t, [][]rune{[]rune("ge"), []rune("rea")}, got)

	line = []rune("average ")
	got, _ = c.Do(line, len(line))
	assert.Empty(t, got)

	line = []rune(".me")
	got, _ = c.Do(line, len(line))
	assert.NotEmpty(t, got)
}

func TestListDataFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, dir, "a.csv", testutil.PeopleRows())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))
	t.Chdir(dir)

	assert.Equal(t, []string{"a.csv"}, listDataFiles(""))
}
