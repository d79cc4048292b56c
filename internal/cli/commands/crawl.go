package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/lineagesync/internal/cli/config"
	"github.com/leapstack-labs/lineagesync/internal/crawl/objstore"
	"github.com/leapstack-labs/lineagesync/internal/crawl/sqlcrawl"
	"github.com/leapstack-labs/lineagesync/pkg/core"
	"github.com/spf13/cobra"
)

// NewCrawlCommand creates the crawl command and its subcommands.
func NewCrawlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Populate the local catalog from live systems",
		Long: `Read table and column metadata from a live system and register it in the
local catalog under the configured connection name.

Crawling is idempotent: tables and columns are matched by qualified name, so
crawling again updates data types and ordinals in place.`,
	}

	cmd.AddCommand(newCrawlPostgresCommand())
	cmd.AddCommand(newCrawlWarehouseCommand())
	cmd.AddCommand(newCrawlS3Command())
	return cmd
}

func newCrawlPostgresCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postgres",
		Short: "Crawl the source PostgreSQL database",
		Example: `  # Crawl with the settings under sources.postgres
  lineagesync crawl postgres

  # Register under a different connection name
  LINEAGESYNC_SOURCES__POSTGRES__PASSWORD=secret lineagesync crawl postgres --source pg-prod`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			return runSQLCrawl(cmd, "postgres", cfg.Sources.Postgres, cfg.Connections.Source)
		},
	}
	cmd.Flags().String("source", "", "Connection name to register the tables under")
	return cmd
}

func newCrawlWarehouseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warehouse",
		Short: "Crawl the warehouse (DuckDB or PostgreSQL)",
		Example: `  # Crawl a DuckDB warehouse file
  LINEAGESYNC_SOURCES__WAREHOUSE__PATH=warehouse.duckdb lineagesync crawl warehouse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			return runSQLCrawl(cmd, "warehouse", cfg.Sources.Warehouse, cfg.Connections.Warehouse)
		},
	}
	cmd.Flags().String("warehouse", "", "Connection name to register the tables under")
	return cmd
}

func newCrawlS3Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "s3",
		Short: "Crawl the object store and sniff CSV schemas",
		Long: `List every object under the configured bucket and prefix, sample CSV objects
and register one table per CSV object with the columns inferred from its
header and first rows.`,
		Example: `  # Crawl a MinIO bucket
  lineagesync crawl s3 --bucket landing --prefix exports/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runS3Crawl(cmd)
		},
	}
	cmd.Flags().String("object-store", "", "Connection name to register the tables under")
	cmd.Flags().String("bucket", "", "Bucket to crawl")
	cmd.Flags().String("prefix", "", "Only crawl keys under this prefix")
	return cmd
}

func runSQLCrawl(cmd *cobra.Command, name string, src sqlcrawl.Config, connName string) error {
	if err := config.ValidateSQLSource(name, src); err != nil {
		return err
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	db, dialect, err := sqlcrawl.Open(ctx, src, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	summary, err := crawlSQL(ctx, cc, db, dialect, src.Schemas, connName)
	if err != nil {
		return err
	}
	return renderCrawlSummary(cc, summary, summary.Connection, map[string]int{
		"Tables":    summary.Tables,
		"Columns":   summary.Columns,
		"Failed":    summary.Failed,
		"Ambiguous": summary.Ambiguous,
	})
}

// crawlSQL registers every table of db under connName.
func crawlSQL(ctx context.Context, cc *CommandContext, db *sql.DB, dialect sqlcrawl.Dialect, schemas []string, connName string) (sqlcrawl.Summary, error) {
	conn, err := cc.Store.UpsertConnection(ctx, connName, dialect.Connector)
	if err != nil {
		return sqlcrawl.Summary{}, err
	}

	tables, err := sqlcrawl.NewCrawler(db, dialect, schemas, cc.Logger).Crawl(ctx)
	if err != nil {
		return sqlcrawl.Summary{}, err
	}
	return sqlcrawl.Register(ctx, cc.Store, conn, tables, cc.Logger)
}

func runS3Crawl(cmd *cobra.Command) error {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	if err := cfg.ValidateS3Source(); err != nil {
		return err
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	src, err := objstore.NewMinioSource(cfg.Sources.S3)
	if err != nil {
		return err
	}

	summary, err := crawlObjectStore(cmd.Context(), cc, src, cfg.Sources.S3, cfg.Connections.ObjectStore)
	if err != nil {
		return err
	}
	return renderCrawlSummary(cc, summary, summary.Connection, map[string]int{
		"Objects":   summary.Objects,
		"Tables":    summary.Tables,
		"Columns":   summary.Columns,
		"Unsampled": summary.Unsampled,
		"Failed":    summary.Failed,
	})
}

// crawlObjectStore registers the CSV objects of src under connName.
func crawlObjectStore(ctx context.Context, cc *CommandContext, src objstore.Source, s3 objstore.Config, connName string) (objstore.Summary, error) {
	conn, err := cc.Store.UpsertConnection(ctx, connName, core.ConnectorS3)
	if err != nil {
		return objstore.Summary{}, err
	}

	objects, err := objstore.NewCrawler(src, s3, cc.Logger).Crawl(ctx)
	if err != nil {
		return objstore.Summary{}, err
	}
	return objstore.Register(ctx, cc.Store, conn, src.Bucket(), objects, cc.Logger)
}

var crawlCountOrder = []string{"Objects", "Tables", "Columns", "Unsampled", "Failed", "Ambiguous"}

func renderCrawlSummary(cc *CommandContext, summary any, connection string, counts map[string]int) error {
	r := cc.Renderer
	if done, err := r.Structured(summary); done {
		return err
	}

	r.Header(1, "Crawl: "+connection)
	for _, key := range crawlCountOrder {
		if n, ok := counts[key]; ok {
			r.KeyValue(key, n)
		}
	}
	r.Println()

	if counts["Failed"] > 0 {
		r.Warning(fmt.Sprintf("%d entries could not be registered; see the log for details", counts["Failed"]))
		return nil
	}
	if counts["Ambiguous"] > 0 {
		r.Warning(fmt.Sprintf("%d table names occur in more than one schema and will share lineage keys", counts["Ambiguous"]))
	}
	r.Success(fmt.Sprintf("Registered %d tables in %s", counts["Tables"], cc.Cfg.CatalogPath))
	return nil
}
