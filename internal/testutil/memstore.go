package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// MemStore is an in-memory core.Store for tests.
// Failure hooks let tests inject collaborator errors.
type MemStore struct {
	mu sync.Mutex

	connections map[string]*core.Connection
	tables      map[string][]core.Table
	columns     map[string][]core.Column
	edges       map[string]core.LineageEdge

	// Writes records every CreateOrConfirmEdge call in order, failed ones included.
	Writes []core.LineageEdge

	// FailEdge, when set, is consulted before each edge write.
	FailEdge func(core.LineageEdge) error
	// FailTables maps a connection name to the error ListTables returns for it.
	FailTables map[string]error
	// FailColumns maps a table ID to the error ListColumns returns for it.
	FailColumns map[string]error
	// ColumnCalls counts ListColumns calls per table ID.
	ColumnCalls map[string]int
}

var _ core.Store = (*MemStore)(nil)

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		connections: make(map[string]*core.Connection),
		tables:      make(map[string][]core.Table),
		columns:     make(map[string][]core.Column),
		edges:       make(map[string]core.LineageEdge),
		FailTables:  make(map[string]error),
		FailColumns: make(map[string]error),
		ColumnCalls: make(map[string]int),
	}
}

// AddConnection registers a connection named name.
func (s *MemStore) AddConnection(name string, typ core.ConnectorType) *core.Connection {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn := &core.Connection{
		ID:            "conn-" + name,
		Name:          name,
		QualifiedName: fmt.Sprintf("default/%s/%s", typ, name),
		Type:          typ,
	}
	s.connections[name] = conn
	return conn
}

// AddTable registers a table with the given columns, ordered as passed.
// IDs are "<connection>/<table>" and "<connection>/<table>/<column>".
func (s *MemStore) AddTable(conn *core.Connection, name string, columns ...string) core.Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := conn.Name + "/" + name
	table := core.Table{
		Entity:        core.NewEntity(id, name),
		Connection:    conn.Name,
		QualifiedName: conn.QualifiedName + "/" + name,
	}
	s.tables[conn.ID] = append(s.tables[conn.ID], table)

	cols := make([]core.Column, 0, len(columns))
	for i, c := range columns {
		col := core.Column{
			Entity:        core.NewEntity(id+"/"+c, c),
			TableID:       id,
			QualifiedName: table.QualifiedName + "/" + c,
		}
		col.Order = core.IntPtr(i + 1)
		cols = append(cols, col)
	}
	s.columns[id] = cols
	return table
}

// ResolveConnection implements core.Catalog.
func (s *MemStore) ResolveConnection(_ context.Context, name string) (*core.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.connections[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, core.ErrConnectionNotFound)
	}
	return conn, nil
}

// ListTables implements core.Catalog.
func (s *MemStore) ListTables(_ context.Context, conn *core.Connection) ([]core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailTables[conn.Name]; err != nil {
		return nil, err
	}
	return append([]core.Table(nil), s.tables[conn.ID]...), nil
}

// ListColumns implements core.Catalog.
func (s *MemStore) ListColumns(_ context.Context, table core.Table) ([]core.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ColumnCalls[table.ID]++
	if err := s.FailColumns[table.ID]; err != nil {
		return nil, err
	}
	return append([]core.Column(nil), s.columns[table.ID]...), nil
}

// CreateOrConfirmEdge implements core.LineageWriter.
func (s *MemStore) CreateOrConfirmEdge(_ context.Context, edge core.LineageEdge) (core.EdgeOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Writes = append(s.Writes, edge)
	if s.FailEdge != nil {
		if err := s.FailEdge(edge); err != nil {
			return 0, err
		}
	}
	if _, ok := s.edges[edge.ProcessKey]; ok {
		return core.EdgeConfirmed, nil
	}
	s.edges[edge.ProcessKey] = edge
	return core.EdgeCreated, nil
}

// Edges returns the stored edges of kind, or all edges when kind is empty.
func (s *MemStore) Edges(kind core.EdgeKind) []core.LineageEdge {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.LineageEdge
	for _, e := range s.edges {
		if kind == "" || e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Edge returns the stored edge with the given process key.
func (s *MemStore) Edge(key string) (core.LineageEdge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.edges[key]
	return e, ok
}
