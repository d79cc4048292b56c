package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/lineagesync/pkg/core"
	"github.com/leapstack-labs/lineagesync/pkg/ident"
)

// --- Connection operations ---

// UpsertConnection returns the connection named name, creating it when missing.
// New connections get the qualified name default/<type>/<unix-seconds>.
func (s *SQLiteStore) UpsertConnection(ctx context.Context, name string, typ core.ConnectorType) (*core.Connection, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if name == "" {
		return nil, fmt.Errorf("connection name is required")
	}

	conn, err := s.ResolveConnection(ctx, name)
	if err == nil {
		return conn, nil
	}
	if !errors.Is(err, core.ErrConnectionNotFound) {
		return nil, err
	}

	conn = &core.Connection{
		ID:            generateID(),
		Name:          name,
		QualifiedName: fmt.Sprintf("default/%s/%d", typ, s.now().Unix()),
		Type:          typ,
	}
	// Two connections created in the same second still need distinct names.
	if exists, err := s.qualifiedNameTaken(ctx, conn.QualifiedName); err != nil {
		return nil, err
	} else if exists {
		conn.QualifiedName += "-" + conn.ID[:8]
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO connections (id, name, qualified_name, connector_type) VALUES (?, ?, ?, ?)`,
		conn.ID, conn.Name, conn.QualifiedName, string(conn.Type),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	s.logger.Info("connection created", "name", name, "qualified_name", conn.QualifiedName)
	return conn, nil
}

func (s *SQLiteStore) qualifiedNameTaken(ctx context.Context, qn string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM connections WHERE qualified_name = ?`, qn,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}
	return n > 0, nil
}

// ResolveConnection implements core.Catalog.
func (s *SQLiteStore) ResolveConnection(ctx context.Context, name string) (*core.Connection, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	conn := &core.Connection{}
	var typ string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, qualified_name, connector_type FROM connections WHERE name = ?`,
		name,
	).Scan(&conn.ID, &conn.Name, &conn.QualifiedName, &typ)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", name, core.ErrConnectionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	conn.Type = core.ConnectorType(typ)
	return conn, nil
}

// ListConnections returns all connections ordered by name.
func (s *SQLiteStore) ListConnections(ctx context.Context) ([]core.Connection, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, qualified_name, connector_type FROM connections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var conns []core.Connection
	for rows.Next() {
		var c core.Connection
		var typ string
		if err := rows.Scan(&c.ID, &c.Name, &c.QualifiedName, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		c.Type = core.ConnectorType(typ)
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

// --- Table operations ---

func defaultTableQualifiedName(conn *core.Connection, spec TableSpec) string {
	parts := []string{conn.QualifiedName}
	for _, p := range []string{spec.Database, spec.Schema, spec.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// UpsertTable registers a table under conn, keyed by qualified name.
// An existing table keeps its ID and has its descriptive fields refreshed.
func (s *SQLiteStore) UpsertTable(ctx context.Context, conn *core.Connection, spec TableSpec) (core.Table, error) {
	if s.db == nil {
		return core.Table{}, errNotOpened
	}
	if spec.Name == "" {
		return core.Table{}, fmt.Errorf("table name is required")
	}
	if spec.QualifiedName == "" {
		spec.QualifiedName = defaultTableQualifiedName(conn, spec)
	}
	if spec.Kind == "" {
		spec.Kind = KindTable
	}

	var size sql.NullInt64
	if spec.SizeBytes > 0 {
		size = sql.NullInt64{Int64: spec.SizeBytes, Valid: true}
	}

	id := generateID()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO catalog_tables (
			id, connection_id, name, normalized_name, qualified_name,
			database_name, schema_name, kind, file_format, object_key, size_bytes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(qualified_name) DO UPDATE SET
			name = excluded.name,
			normalized_name = excluded.normalized_name,
			database_name = excluded.database_name,
			schema_name = excluded.schema_name,
			kind = excluded.kind,
			file_format = excluded.file_format,
			object_key = excluded.object_key,
			size_bytes = excluded.size_bytes,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id`,
		id, conn.ID, spec.Name, ident.Normalize(spec.Name), spec.QualifiedName,
		nullableString(spec.Database), nullableString(spec.Schema), spec.Kind,
		nullableString(spec.FileFormat), nullableString(spec.ObjectKey), size,
	).Scan(&id)
	if err != nil {
		return core.Table{}, fmt.Errorf("failed to upsert table %s: %w", spec.QualifiedName, err)
	}

	return core.Table{
		Entity:        core.NewEntity(id, spec.Name),
		Connection:    conn.Name,
		QualifiedName: spec.QualifiedName,
		Database:      spec.Database,
		Schema:        spec.Schema,
	}, nil
}

// ListTables implements core.Catalog. Tables are ordered by database,
// schema and name.
func (s *SQLiteStore) ListTables(ctx context.Context, conn *core.Connection) ([]core.Table, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, qualified_name, COALESCE(database_name, ''), COALESCE(schema_name, '')
		FROM catalog_tables
		WHERE connection_id = ?
		ORDER BY database_name, schema_name, name`,
		conn.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []core.Table
	for rows.Next() {
		var id, name string
		t := core.Table{Connection: conn.Name}
		if err := rows.Scan(&id, &name, &t.QualifiedName, &t.Database, &t.Schema); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		t.Entity = core.NewEntity(id, name)
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// --- Column operations ---

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UpsertColumn registers a column of table, keyed by qualified name.
// An existing column keeps its ID and has its type and order refreshed.
func (s *SQLiteStore) UpsertColumn(ctx context.Context, table core.Table, spec ColumnSpec) (core.Column, error) {
	if s.db == nil {
		return core.Column{}, errNotOpened
	}
	return upsertColumn(ctx, s.db, table, spec)
}

// UpsertColumns registers the columns of table in one transaction.
func (s *SQLiteStore) UpsertColumns(ctx context.Context, table core.Table, specs []ColumnSpec) ([]core.Column, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	cols := make([]core.Column, 0, len(specs))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, spec := range specs {
			col, err := upsertColumn(ctx, tx, table, spec)
			if err != nil {
				return err
			}
			cols = append(cols, col)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cols, nil
}

func upsertColumn(ctx context.Context, q queryRower, table core.Table, spec ColumnSpec) (core.Column, error) {
	if spec.Name == "" {
		return core.Column{}, fmt.Errorf("column name is required")
	}
	if spec.QualifiedName == "" {
		spec.QualifiedName = table.QualifiedName + "/" + spec.Name
	}

	id := generateID()
	err := q.QueryRowContext(ctx, `
		INSERT INTO catalog_columns (id, table_id, name, normalized_name, qualified_name, data_type, ordinal)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(qualified_name) DO UPDATE SET
			name = excluded.name,
			normalized_name = excluded.normalized_name,
			data_type = excluded.data_type,
			ordinal = excluded.ordinal,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id`,
		id, table.ID, spec.Name, ident.Normalize(spec.Name), spec.QualifiedName,
		nullableString(spec.DataType), nullableInt(spec.Order),
	).Scan(&id)
	if err != nil {
		return core.Column{}, fmt.Errorf("failed to upsert column %s: %w", spec.QualifiedName, err)
	}

	col := core.Column{
		Entity:        core.NewEntity(id, spec.Name),
		TableID:       table.ID,
		QualifiedName: spec.QualifiedName,
		DataType:      core.StringPtr(spec.DataType),
	}
	col.Order = spec.Order
	return col, nil
}

// ListColumns implements core.Catalog. Columns are ordered by ordinal
// position, columns without one last, then by name.
func (s *SQLiteStore) ListColumns(ctx context.Context, table core.Table) ([]core.Column, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, qualified_name, data_type, ordinal
		FROM catalog_columns
		WHERE table_id = ?
		ORDER BY ordinal IS NULL, ordinal, name`,
		table.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []core.Column
	for rows.Next() {
		var id, name string
		var dataType sql.NullString
		var ordinal sql.NullInt64
		c := core.Column{TableID: table.ID}
		if err := rows.Scan(&id, &name, &c.QualifiedName, &dataType, &ordinal); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		c.Entity = core.NewEntity(id, name)
		if dataType.Valid {
			c.DataType = core.StringPtr(dataType.String)
		}
		if ordinal.Valid {
			c.Order = core.IntPtr(int(ordinal.Int64))
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}
