package core

import "context"

// Catalog is the read side of a metadata catalog.
type Catalog interface {
	// ResolveConnection finds a connection by name.
	// It returns an error wrapping ErrConnectionNotFound when none exists.
	ResolveConnection(ctx context.Context, name string) (*Connection, error)

	// ListTables returns every table owned by the connection.
	ListTables(ctx context.Context, conn *Connection) ([]Table, error)

	// ListColumns returns the columns of a table in listing order.
	ListColumns(ctx context.Context, table Table) ([]Column, error)
}

// LineageWriter persists lineage edges.
type LineageWriter interface {
	// CreateOrConfirmEdge writes the edge unless one with the same ProcessKey
	// exists. Calling it twice with the same key never duplicates the edge.
	CreateOrConfirmEdge(ctx context.Context, edge LineageEdge) (EdgeOutcome, error)
}

// Store is a catalog that can also record lineage.
type Store interface {
	Catalog
	LineageWriter
}
