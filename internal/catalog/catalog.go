// Package catalog traverses a core.Catalog on behalf of the matching engine.
//
// Reader wraps a catalog with the error policy of a sync run: listing failures
// are reported as warnings and yield empty results, and column listings are
// cached per table so a table shared by two stages is only fetched once.
package catalog

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// SortColumns orders columns by ordinal position, columns without a position
// last, then by name. The sort is stable.
func SortColumns(cols []core.Column) {
	slices.SortStableFunc(cols, func(a, b core.Column) int {
		switch {
		case a.Order == nil && b.Order == nil:
		case a.Order == nil:
			return 1
		case b.Order == nil:
			return -1
		default:
			if c := cmp.Compare(*a.Order, *b.Order); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// Reader is a caching view over a core.Catalog.
type Reader struct {
	catalog core.Catalog
	logger  *slog.Logger

	mu      sync.Mutex
	columns map[string][]core.Column
}

// NewReader wraps cat. A nil logger discards output.
func NewReader(cat core.Catalog, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reader{
		catalog: cat,
		logger:  logger,
		columns: make(map[string][]core.Column),
	}
}

// Resolve looks up a required connection. Failure is a *core.ConfigurationError.
func (r *Reader) Resolve(ctx context.Context, name, role string) (*core.Connection, error) {
	conn, err := r.catalog.ResolveConnection(ctx, name)
	if err != nil {
		return nil, &core.ConfigurationError{Connection: name, Role: role, Err: err}
	}
	if conn == nil {
		return nil, &core.ConfigurationError{Connection: name, Role: role, Err: core.ErrConnectionNotFound}
	}
	r.logger.Debug("resolved connection", "role", role, "name", conn.Name, "qualified_name", conn.QualifiedName)
	return conn, nil
}

// Tables lists the tables of conn. A listing error is logged and treated as
// an empty connection so the other connections can still be processed.
func (r *Reader) Tables(ctx context.Context, conn *core.Connection) []core.Table {
	tables, err := r.catalog.ListTables(ctx, conn)
	if err != nil {
		r.logger.Warn("failed to list tables",
			"connection", conn.Name,
			"error", &core.CollaboratorError{Op: "list tables of", Entity: conn.Name, Err: err})
		return nil
	}
	if len(tables) == 0 {
		r.logger.Warn("no tables found", "connection", conn.Name)
	}
	r.logger.Debug("listed tables", "connection", conn.Name, "count", len(tables))
	return tables
}

// Columns lists the columns of table in SortColumns order. Successful
// listings are cached by table ID.
func (r *Reader) Columns(ctx context.Context, table core.Table) ([]core.Column, error) {
	r.mu.Lock()
	cached, ok := r.columns[table.ID]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	cols, err := r.catalog.ListColumns(ctx, table)
	if err != nil {
		return nil, &core.CollaboratorError{Op: "list columns of", Entity: tableRef(table), Err: err}
	}
	cols = slices.Clone(cols)
	SortColumns(cols)

	r.mu.Lock()
	r.columns[table.ID] = cols
	r.mu.Unlock()
	return cols, nil
}

func tableRef(t core.Table) string {
	if t.QualifiedName != "" {
		return t.QualifiedName
	}
	return t.Connection + "/" + t.Name
}
