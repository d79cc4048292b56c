package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/lineagesync/internal/cli/config"
	"github.com/leapstack-labs/lineagesync/internal/cli/output"
	"github.com/leapstack-labs/lineagesync/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.SQLiteStore
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with the catalog opened.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc, err := NewCommandContextWithoutStore(cmd)
	if err != nil {
		return nil, nil, err
	}

	store, err := openCatalog(cc.Cfg.CatalogPath, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	cc.Store = store

	cleanup := func() {
		_ = store.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without opening the
// catalog. Useful for commands that don't need database access.
func NewCommandContextWithoutStore(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	r := output.FromContext(ctx)
	if r == nil {
		mode, err := output.ParseMode(cfg.OutputFormat)
		if err != nil {
			return nil, err
		}
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: r,
	}, nil
}

// openCatalog opens and migrates the local catalog.
func openCatalog(path string, logger *slog.Logger) (*state.SQLiteStore, error) {
	store, err := state.OpenCatalog(path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	return store, nil
}
