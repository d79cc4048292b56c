package core

import "github.com/leapstack-labs/lineagesync/pkg/ident"

// ConnectorType identifies the kind of system behind a catalog connection.
type ConnectorType string

// Known connector types.
const (
	ConnectorPostgres ConnectorType = "postgres"
	ConnectorS3       ConnectorType = "s3"
	ConnectorDuckDB   ConnectorType = "duckdb"
	ConnectorOther    ConnectorType = "other"
)

// Connection is a named data source or sink registered in the catalog.
type Connection struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	QualifiedName string        `json:"qualified_name" yaml:"qualified_name"`
	Type          ConnectorType `json:"type" yaml:"type"`
}

// Entity is the matchable part of a table or column.
// Identity is ID; Name is display text and Normalized is always derived from it.
type Entity struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Normalized string `json:"normalized_name" yaml:"normalized_name"`
	// Order is the ordinal position when the catalog knows it.
	// It drives listing order only, never matching.
	Order *int `json:"order,omitempty" yaml:"order,omitempty"`
}

// NewEntity creates an entity with its normalized name computed.
func NewEntity(id, name string) Entity {
	return Entity{ID: id, Name: name, Normalized: ident.Normalize(name)}
}

// Rename changes the display name and recomputes the normalized name.
func (e *Entity) Rename(name string) {
	e.Name = name
	e.Normalized = ident.Normalize(name)
}

// Identity returns the entity itself. Table and Column inherit it,
// which lets generic matching code reach the embedded entity.
func (e Entity) Identity() Entity {
	return e
}

// Named is implemented by anything that embeds an Entity.
type Named interface {
	Identity() Entity
}

// Table is a table-like asset (database table, view, or a file with a schema).
type Table struct {
	Entity `yaml:",inline"`
	// Connection is the owning connection's name; lineage process keys use it.
	Connection    string `json:"connection" yaml:"connection"`
	QualifiedName string `json:"qualified_name" yaml:"qualified_name"`
	Database      string `json:"database,omitempty" yaml:"database,omitempty"`
	Schema        string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Column is a column of a Table.
type Column struct {
	Entity        `yaml:",inline"`
	TableID       string `json:"table_id" yaml:"table_id"`
	QualifiedName string `json:"qualified_name" yaml:"qualified_name"`
	// DataType is the catalog's canonical type name, nil when unknown.
	DataType *string `json:"data_type,omitempty" yaml:"data_type,omitempty"`
}

// IntPtr returns a pointer to v. Handy for Entity.Order literals.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to s, or nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
