package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	ChartOut string
	Input    string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [TEXT...]",
		Short: "Ask a question about the loaded spreadsheet",
		Long: `Ask plain-language questions about the spreadsheet given with --file.

Questions can list columns, preview rows, describe the data, count values,
average or sum a column, correlate two columns, list rows below a threshold
and draw bar, pie, line, scatter and histogram charts. Charts are written as
PNG files to the chart directory.

Questions are read from the arguments, from --input (one per line), or from
piped stdin. Without any of these on a terminal, an interactive REPL starts.`,
		Example: `  # One question
  tabletalk query -f people.csv "what is the average Age"

  # Charts are saved under ./charts
  tabletalk query -f people.csv "pie chart of City"

  # Rows below a threshold
  tabletalk query -f people.csv "show Age below 25"

  # Several questions, JSON output
  printf 'columns\ndescribe\n' | tabletalk query -f people.csv -o json

  # Interactive mode
  tabletalk query -f people.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ChartOut, "chart-out", "", "Directory for chart PNGs (overrides chart.dir)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read questions from file, one per line")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	chartDir := cmdCtx.Cfg.Chart.Dir
	if opts.ChartOut != "" {
		chartDir = opts.ChartOut
	}

	switch {
	case len(args) > 0:
		if err := cmdCtx.LoadConfigured(ctx); err != nil {
			return err
		}
		return cmdCtx.answerOne(ctx, strings.Join(args, " "), chartDir)
	case opts.Input != "":
		if err := cmdCtx.LoadConfigured(ctx); err != nil {
			return err
		}
		f, err := os.Open(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return cmdCtx.answerLines(ctx, f, chartDir)
	case !isTerminal(cmd.InOrStdin()):
		// Piped input: one question per line
		if err := cmdCtx.LoadConfigured(ctx); err != nil {
			return err
		}
		return cmdCtx.answerLines(ctx, cmd.InOrStdin(), chartDir)
	default:
		return runQueryREPL(cmd, cmdCtx, chartDir)
	}
}

// answerOne resolves a single question and prints the result.
func (c *CommandContext) answerOne(ctx context.Context, text, chartDir string) error {
	resp, ok := c.Resolver.Resolve(ctx, text, c.Store.Snapshot())
	if !ok {
		return nil
	}
	view := c.present(resp, chartDir)
	if c.Renderer.IsStructured() {
		return c.Renderer.Structured(view)
	}
	return nil
}

// answerLines resolves one question per line of r. Structured output is
// emitted as a single list once every line is answered.
func (c *CommandContext) answerLines(ctx context.Context, r io.Reader, chartDir string) error {
	var views []responseView
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		resp, ok := c.Resolver.Resolve(ctx, scanner.Text(), c.Store.Snapshot())
		if !ok {
			continue
		}
		views = append(views, c.present(resp, chartDir))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read questions: %w", err)
	}
	if c.Renderer.IsStructured() {
		if views == nil {
			views = []responseView{}
		}
		return c.Renderer.Structured(views)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
