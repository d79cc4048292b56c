// Package engine runs the two-stage lineage sync.
// It resolves the three configured connections, matches tables and columns
// for source -> object store and object store -> warehouse, and writes the
// resulting lineage through the store.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/lineagesync/internal/catalog"
	"github.com/leapstack-labs/lineagesync/internal/lineage"
	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// Default process names for the two stages.
const (
	DefaultSourceToObjectStore    = "Source to Object Store ETL Process"
	DefaultObjectStoreToWarehouse = "Object Store to Warehouse ETL Process"
)

// Connections names the three catalog connections of a run.
type Connections struct {
	Source      string `koanf:"source" json:"source" yaml:"source"`
	ObjectStore string `koanf:"object_store" json:"object_store" yaml:"object_store"`
	Warehouse   string `koanf:"warehouse" json:"warehouse" yaml:"warehouse"`
}

// Validate checks that every connection is named.
func (c Connections) Validate() error {
	switch {
	case c.Source == "":
		return fmt.Errorf("source connection name is required")
	case c.ObjectStore == "":
		return fmt.Errorf("object store connection name is required")
	case c.Warehouse == "":
		return fmt.Errorf("warehouse connection name is required")
	}
	return nil
}

// Stages holds the process name written for each stage.
type Stages struct {
	SourceToObjectStore    string `koanf:"source_to_object_store" json:"source_to_object_store" yaml:"source_to_object_store"`
	ObjectStoreToWarehouse string `koanf:"object_store_to_warehouse" json:"object_store_to_warehouse" yaml:"object_store_to_warehouse"`
}

// Config holds engine configuration.
type Config struct {
	// Match controls normalization and thresholds.
	Match core.MatchConfig
	// Connections names the source, object store and warehouse connections.
	Connections Connections
	// Stages names the lineage processes.
	Stages Stages
	// Namespace prefixes process keys (optional, defaults to lineage.DefaultNamespace).
	Namespace string
	// DryRun matches everything but writes no lineage.
	DryRun bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine orchestrates a sync run over a core.Store.
type Engine struct {
	cfg     Config
	reader  *catalog.Reader
	builder *lineage.Builder
	logger  *slog.Logger
}

// New creates an engine. The configuration is validated up front.
func New(store core.Store, cfg Config) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if err := cfg.Match.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching configuration: %w", err)
	}
	if err := cfg.Connections.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Stages.SourceToObjectStore == "" {
		cfg.Stages.SourceToObjectStore = DefaultSourceToObjectStore
	}
	if cfg.Stages.ObjectStoreToWarehouse == "" {
		cfg.Stages.ObjectStoreToWarehouse = DefaultObjectStoreToWarehouse
	}

	logger.Debug("initializing engine",
		"source", cfg.Connections.Source,
		"object_store", cfg.Connections.ObjectStore,
		"warehouse", cfg.Connections.Warehouse,
		"dry_run", cfg.DryRun)

	builder := lineage.NewBuilder(store, cfg.Namespace, logger)
	cfg.Namespace = builder.Namespace()

	return &Engine{
		cfg:     cfg,
		reader:  catalog.NewReader(store, logger),
		builder: builder,
		logger:  logger,
	}, nil
}
