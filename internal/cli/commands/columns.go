package commands

import (
	"github.com/spf13/cobra"
)

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the columns of the spreadsheet",
		Long: `Load the spreadsheet given with --file and list its columns with the
inferred type (number, text or empty) and the count of non-empty cells.`,
		Example: `  tabletalk columns -f people.csv
  tabletalk columns -f sales.xlsx --sheet Q3 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			t, err := cmdCtx.LoadTable(cmd.Context(), cmdCtx.Cfg.File)
			if err != nil {
				return err
			}
			return renderSchema(cmdCtx.Renderer, t)
		},
	}
}
