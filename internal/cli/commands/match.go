package commands

import (
	"github.com/spf13/cobra"
)

// NewMatchCommand creates the match command.
func NewMatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Preview table and column matches without writing lineage",
		Long: `Run the matching pipeline of sync as a dry run.

Every matched table pair and column pair is printed with its similarity
score, together with the number of processes a sync would write. Nothing is
written to the catalog.`,
		Example: `  # Preview with the configured thresholds
  lineagesync match

  # Try a looser threshold and inspect the result as JSON
  lineagesync match --table-threshold 60 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, true)
		},
	}

	addMatchFlags(cmd)
	return cmd
}
