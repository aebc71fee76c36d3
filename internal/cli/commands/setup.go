package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/leapstack-labs/tabletalk/internal/cli/config"
	"github.com/leapstack-labs/tabletalk/internal/cli/output"
	"github.com/leapstack-labs/tabletalk/pkg/chart"
	"github.com/leapstack-labs/tabletalk/pkg/query"
	"github.com/leapstack-labs/tabletalk/pkg/table"
	"github.com/spf13/cobra"
)

// errNoFile is returned by commands that need a table when none is configured.
var errNoFile = errors.New("no data file given (use --file or set file in tabletalk.yaml)")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Store    *table.Store
	Resolver *query.Resolver
	Metrics  *query.Metrics
	Charts   *chart.PNGRenderer
}

// NewCommandContext builds the store, resolver and renderers from the config
// the root command stored in cmd's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	metrics := query.NewMetrics()
	store := table.NewStore(table.StoreOptions{
		Load: table.LoadOptions{
			Sheet:       cfg.Sheet,
			NoHeaderRow: cfg.NoHeaderRow,
		},
		KeepOnFailure: cfg.KeepOnLoadFailure,
		Logger:        logger,
	})
	resolver := query.NewResolver(query.Options{
		PreviewRows: cfg.PreviewRows,
		WholeWord:   cfg.StrictColumns,
		Logger:      logger,
		Metrics:     metrics,
	})
	charts := chart.NewPNGRenderer(chart.RenderOptions{
		Width:         cfg.Chart.Width,
		Height:        cfg.Chart.Height,
		MaxCategories: cfg.Chart.MaxCategories,
	})

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Store:    store,
		Resolver: resolver,
		Metrics:  metrics,
		Charts:   charts,
	}
}

// LoadTable loads path into the store and reports the load summary. In
// structured output modes the summary goes to the log only.
func (c *CommandContext) LoadTable(ctx context.Context, path string) (*table.Table, error) {
	if path == "" {
		return nil, errNoFile
	}
	t, err := c.Store.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if !c.Renderer.IsStructured() {
		c.Renderer.Success(t.Summary())
	}
	return t, nil
}

// LoadConfigured loads the file named by the config, if any. A missing file
// setting is not an error: queries then answer with the no-data message.
func (c *CommandContext) LoadConfigured(ctx context.Context) error {
	if c.Cfg.File == "" {
		return nil
	}
	_, err := c.LoadTable(ctx, c.Cfg.File)
	return err
}
