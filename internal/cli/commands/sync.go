package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/lineagesync/internal/engine"
	"github.com/leapstack-labs/lineagesync/pkg/core"
	"github.com/spf13/cobra"
)

// SyncOptions holds options for the sync command.
type SyncOptions struct {
	DryRun bool
}

// NewSyncCommand creates the sync command.
func NewSyncCommand() *cobra.Command {
	opts := &SyncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Match catalog entities and write lineage",
		Long: `Run the two-stage lineage sync against the local catalog.

Tables of the source connection are matched to tables of the object store,
and object-store tables to tables of the warehouse. For every matched pair a
table lineage process is written, followed by one process per matched column
pair. Running sync again confirms existing processes instead of duplicating
them.`,
		Example: `  # Sync with the connections from lineagesync.yaml
  lineagesync sync

  # Override connection names and the table threshold
  lineagesync sync --source postgres-prod --warehouse snowflake --table-threshold 70

  # Preview without writing
  lineagesync sync --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts.DryRun)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Match and report without writing lineage")
	addMatchFlags(cmd)

	return cmd
}

// addMatchFlags registers the flags shared by sync and match. The config
// loader maps them onto the matching and connections keys.
func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("table-threshold", core.DefaultTableThreshold, "Minimum table similarity (0-100)")
	cmd.Flags().Int("column-threshold", core.DefaultColumnThreshold, "Minimum column similarity (0-100)")
	cmd.Flags().Bool("normalize", true, "Compare normalized names instead of raw names")
	cmd.Flags().String("source", "", "Source connection name")
	cmd.Flags().String("object-store", "", "Object store connection name")
	cmd.Flags().String("warehouse", "", "Warehouse connection name")
}

func runSync(cmd *cobra.Command, dryRun bool) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ecfg := cc.Cfg.EngineConfig()
	ecfg.DryRun = dryRun
	ecfg.Logger = cc.Logger

	eng, err := engine.New(cc.Store, ecfg)
	if err != nil {
		return err
	}

	result, err := eng.Run(cmd.Context())
	if err != nil {
		return withCrawlHint(err)
	}

	return renderSyncResult(cc, result)
}

// withCrawlHint points at the crawl command that registers a missing connection.
func withCrawlHint(err error) error {
	var cfgErr *core.ConfigurationError
	if !errors.As(err, &cfgErr) {
		return err
	}
	target := map[string]string{
		"source":       "postgres",
		"object store": "s3",
		"warehouse":    "warehouse",
	}[cfgErr.Role]
	if target == "" {
		return err
	}
	return fmt.Errorf("%w\nHint: register it with 'lineagesync crawl %s'", err, target)
}
