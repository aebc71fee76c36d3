package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/tabletalk/pkg/table"
	"github.com/spf13/cobra"
)

const replPrompt = "tabletalk> "

// repl is one interactive session over a CommandContext.
type repl struct {
	cmdCtx   *CommandContext
	out      io.Writer
	errOut   io.Writer
	chartDir string

	stopWatch context.CancelFunc
}

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, chartDir string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s := &repl{
		cmdCtx:   cmdCtx,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		chartDir: chartDir,
	}
	defer s.unwatch()

	// A failed initial load is reported; .load can still recover.
	if cmdCtx.Cfg.File != "" {
		s.load(ctx, cmdCtx.Cfg.File)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     cmdCtx.Cfg.HistoryFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(s.out, "tabletalk REPL")
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := s.handleDotCommand(ctx, line); quit {
				break
			}
			continue
		}

		if err := cmdCtx.answerOne(ctx, line, s.chartDir); err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(s.out)
	}

	return nil
}

// handleDotCommand runs a REPL command and reports whether the session ends.
func (s *repl) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".load":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .load <path>")
			return false
		}
		path := strings.Join(parts[1:], " ")
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		s.load(ctx, path)

	case ".columns":
		t := s.cmdCtx.Store.Snapshot()
		if t == nil {
			_, _ = fmt.Fprintln(s.errOut, "No table loaded (use .load <path>)")
			return false
		}
		if err := renderSchema(s.cmdCtx.Renderer, t); err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}

	case ".metrics":
		if err := renderMetrics(s.cmdCtx.Renderer, s.cmdCtx.Metrics); err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// load replaces the current table and, with watching enabled, follows the
// new file.
func (s *repl) load(ctx context.Context, path string) {
	if _, err := s.cmdCtx.LoadTable(ctx, path); err != nil {
		s.cmdCtx.Renderer.Error(err.Error())
	}
	if s.cmdCtx.Cfg.Watch {
		s.watch(ctx, path)
	}
}

func (s *repl) watch(ctx context.Context, path string) {
	s.unwatch()
	watchCtx, cancel := context.WithCancel(ctx)
	err := s.cmdCtx.Store.Watch(watchCtx, path, s.cmdCtx.Cfg.WatchDebounce, func(t *table.Table, err error) {
		if err != nil {
			s.cmdCtx.Renderer.Warning("reload failed: " + err.Error())
			return
		}
		s.cmdCtx.Renderer.Muted("reloaded: " + t.Summary())
	})
	if err != nil {
		cancel()
		s.cmdCtx.Renderer.Warning(err.Error())
		return
	}
	s.stopWatch = cancel
}

func (s *repl) unwatch() {
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .load <path>    Load a CSV, TSV or XLSX file
  .columns        List columns with their types
  .metrics        Show query counts by intent
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Questions:
  what are the columns          show first 10 rows
  describe the data             count values in City
  average Age                   sum of Score
  correlation between Age and Score
  show Age below 25             bar chart of City
  pie chart of City             scatter plot of Age and Score

Tips:
  - Column names are matched case-insensitively
  - Use arrow keys to navigate history
  - Tab completion works for column names and commands
`
	_, _ = fmt.Fprintln(w, help)
}

// completer completes dot-commands, file names after .load, and column
// names of the current table anywhere in a question.
func (s *repl) completer() readline.AutoCompleter {
	return &questionCompleter{
		commands: readline.NewPrefixCompleter(
			readline.PcItem(".help"),
			readline.PcItem(".load", readline.PcItemDynamic(listDataFiles)),
			readline.PcItem(".columns"),
			readline.PcItem(".metrics"),
			readline.PcItem(".clear"),
			readline.PcItem(".quit"),
			readline.PcItem(".exit"),
		),
		columns: func() []string {
			if t := s.cmdCtx.Store.Snapshot(); t != nil {
				return t.Columns()
			}
			return nil
		},
	}
}

type questionCompleter struct {
	commands *readline.PrefixCompleter
	columns  func() []string
}

func (c *questionCompleter) Do(line []rune, pos int) ([][]rune, int) {
	if strings.HasPrefix(string(line), ".") {
		return c.commands.Do(line, pos)
	}

	start := pos
	for start > 0 && line[start-1] != ' ' {
		start--
	}
	word := string(line[start:pos])
	if word == "" {
		return nil, 0
	}

	var out [][]rune
	for _, name := range c.columns() {
		if strings.HasPrefix(name, word) && name != word {
			out = append(out, []rune(strings.TrimPrefix(name, word)))
		}
	}
	return out, len([]rune(word))
}

// listDataFiles offers loadable files in the working directory.
func listDataFiles(string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && table.Supported(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names
}
