package commands

import (
	"strings"

	"github.com/leapstack-labs/tabletalk/internal/cli/config"
	"github.com/leapstack-labs/tabletalk/internal/cli/output"
	"github.com/leapstack-labs/tabletalk/pkg/chart"
	"github.com/leapstack-labs/tabletalk/pkg/table"
	"github.com/spf13/cobra"
)

// versionInfo is what the version command reports.
type versionInfo struct {
	Version string   `json:"version" yaml:"version"`
	Formats []string `json:"formats" yaml:"formats"`
	Charts  []string `json:"charts" yaml:"charts"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the tabletalk version with the file formats it reads and the charts it draws.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig(cmd.Context())
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			info := versionInfo{Version: version, Formats: table.Extensions}
			for _, k := range chart.Kinds {
				info.Charts = append(info.Charts, string(k))
			}
			if r.IsStructured() {
				return r.Structured(info)
			}

			r.Printf("tabletalk v%s\n", info.Version)
			r.Println("Plain-language questions over CSV and XLSX spreadsheets")
			r.Muted("formats: " + strings.Join(info.Formats, " "))
			r.Muted("charts:  " + strings.Join(info.Charts, " "))
			return nil
		},
	}
}
