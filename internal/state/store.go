// Package state provides the local metadata catalog backed by SQLite.
// It stores connections, tables, columns and lineage processes, and
// implements core.Store so a sync run can read from and write to it.
package state

import (
	"github.com/leapstack-labs/lineagesync/pkg/core"
)

var _ core.Store = (*SQLiteStore)(nil)

// Table kinds.
const (
	KindTable = "TABLE"
	KindView  = "VIEW"
	KindFile  = "FILE"
)

// TableSpec describes a table to register.
type TableSpec struct {
	Name string
	// QualifiedName defaults to <connection>/<database>/<schema>/<name>,
	// skipping empty parts.
	QualifiedName string
	Database      string
	Schema        string
	// Kind is one of KindTable, KindView or KindFile (default KindTable).
	Kind string

	// Object-store fields, empty for database tables.
	FileFormat string
	ObjectKey  string
	SizeBytes  int64
}

// ColumnSpec describes a column to register.
type ColumnSpec struct {
	Name string
	// QualifiedName defaults to <table>/<name>.
	QualifiedName string
	DataType      string
	Order         *int
}
