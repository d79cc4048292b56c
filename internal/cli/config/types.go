// Package config provides configuration management for the lineagesync CLI.
//
// Configuration is layered with koanf: built-in defaults, then the YAML
// config file, then LINEAGESYNC_ environment variables, then explicitly set
// command-line flags. Nested keys in environment variables use a double
// underscore, e.g. LINEAGESYNC_MATCHING__TABLE_THRESHOLD=70.
package config

import (
	"github.com/leapstack-labs/lineagesync/internal/crawl/objstore"
	"github.com/leapstack-labs/lineagesync/internal/crawl/sqlcrawl"
	"github.com/leapstack-labs/lineagesync/internal/engine"
	"github.com/leapstack-labs/lineagesync/internal/lineage"
	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// Default configuration values.
const (
	DefaultCatalogPath = ".lineagesync/catalog.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultNamespace   = lineage.DefaultNamespace

	DefaultSourceConnection      = "postgres-source"
	DefaultObjectStoreConnection = "s3-landing"
	DefaultWarehouseConnection   = "warehouse"
)

// Config file names searched in the project root, in order.
var configFileNames = []string{"lineagesync.yaml", "lineagesync.yml"}

// Config holds all CLI configuration options.
type Config struct {
	CatalogPath      string             `koanf:"catalog_path"`
	Verbose          bool               `koanf:"verbose"`
	OutputFormat     string             `koanf:"output"`
	ProcessNamespace string             `koanf:"process_namespace"`
	Matching         core.MatchConfig   `koanf:"matching"`
	Connections      engine.Connections `koanf:"connections"`
	Stages           engine.Stages      `koanf:"stages"`
	Sources          Sources            `koanf:"sources"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Sources describes how to reach the live systems for crawling.
type Sources struct {
	Postgres  sqlcrawl.Config `koanf:"postgres"`
	Warehouse sqlcrawl.Config `koanf:"warehouse"`
	S3        objstore.Config `koanf:"s3"`
}

// EngineConfig converts the CLI configuration into an engine configuration.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		Match:       c.Matching,
		Connections: c.Connections,
		Stages:      c.Stages,
		Namespace:   c.ProcessNamespace,
	}
}

// defaults returns the default key/value map loaded before any other layer.
func defaults() map[string]any {
	m := core.DefaultMatchConfig()
	return map[string]any{
		"catalog_path":                     DefaultCatalogPath,
		"verbose":                          false,
		"output":                           DefaultOutput,
		"process_namespace":                DefaultNamespace,
		"matching.normalize_names":         m.NormalizeNames,
		"matching.table_threshold":         m.TableThreshold,
		"matching.column_threshold":        m.ColumnThreshold,
		"connections.source":               DefaultSourceConnection,
		"connections.object_store":         DefaultObjectStoreConnection,
		"connections.warehouse":            DefaultWarehouseConnection,
		"stages.source_to_object_store":    engine.DefaultSourceToObjectStore,
		"stages.object_store_to_warehouse": engine.DefaultObjectStoreToWarehouse,
		"sources.postgres.type":            "postgres",
		"sources.postgres.port":            5432,
		"sources.warehouse.type":           "duckdb",
		"sources.s3.use_ssl":               true,
		"sources.s3.sample_bytes":          objstore.DefaultSampleBytes,
		"sources.s3.sample_rows":           objstore.DefaultSampleRows,
		"sources.s3.concurrency":           objstore.DefaultConcurrency,
	}
}
