package state

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// CreateOrConfirmEdge implements core.LineageWriter. The process key is
// unique, so an existing process is confirmed and left untouched.
func (s *SQLiteStore) CreateOrConfirmEdge(ctx context.Context, edge core.LineageEdge) (core.EdgeOutcome, error) {
	if s.db == nil {
		return 0, errNotOpened
	}
	if edge.ProcessKey == "" {
		return 0, fmt.Errorf("process key is required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO processes (id, process_key, name, description, kind, source_ref, target_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(process_key) DO NOTHING`,
		generateID(), edge.ProcessKey, edge.ProcessName, nullableString(edge.Description),
		string(edge.Kind), edge.SourceRef, edge.TargetRef,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to write process %s: %w", edge.ProcessKey, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to write process %s: %w", edge.ProcessKey, err)
	}
	if n == 0 {
		return core.EdgeConfirmed, nil
	}
	return core.EdgeCreated, nil
}

// ListEdges returns stored lineage processes ordered by key. An empty kind
// returns every kind.
func (s *SQLiteStore) ListEdges(ctx context.Context, kind core.EdgeKind) ([]core.LineageEdge, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	query := `SELECT process_key, name, COALESCE(description, ''), kind, source_ref, target_ref FROM processes`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY process_key`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var edges []core.LineageEdge
	for rows.Next() {
		var e core.LineageEdge
		var k string
		if err := rows.Scan(&e.ProcessKey, &e.ProcessName, &e.Description, &k, &e.SourceRef, &e.TargetRef); err != nil {
			return nil, fmt.Errorf("failed to scan process: %w", err)
		}
		e.Kind = core.EdgeKind(k)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
