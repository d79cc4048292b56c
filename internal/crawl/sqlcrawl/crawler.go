package sqlcrawl

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/lineagesync/internal/state"
	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// ColumnInfo is a column read from information_schema.columns.
type ColumnInfo struct {
	Name     string `json:"name" yaml:"name"`
	DataType string `json:"data_type" yaml:"data_type"`
	Position int    `json:"position" yaml:"position"`
}

// TableInfo is a table or view read from information_schema.tables.
type TableInfo struct {
	Database string       `json:"database" yaml:"database"`
	Schema   string       `json:"schema" yaml:"schema"`
	Name     string       `json:"name" yaml:"name"`
	Kind     string       `json:"kind" yaml:"kind"`
	Columns  []ColumnInfo `json:"columns" yaml:"columns"`
}

// Crawler lists tables and columns of one database.
type Crawler struct {
	db      *sql.DB
	dialect Dialect
	schemas []string
	logger  *slog.Logger
}

// NewCrawler creates a crawler. schemas, when non-empty, limits the crawl.
func NewCrawler(db *sql.DB, dialect Dialect, schemas []string, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Crawler{db: db, dialect: dialect, schemas: schemas, logger: logger}
}

// schemaFilter returns the WHERE clause shared by both queries.
func (c *Crawler) schemaFilter() (string, []any) {
	clause := "table_schema NOT IN ('pg_catalog', 'information_schema')"
	if len(c.schemas) == 0 {
		return clause, nil
	}

	placeholders := make([]string, len(c.schemas))
	args := make([]any, len(c.schemas))
	for i, s := range c.schemas {
		placeholders[i] = c.dialect.Placeholder(i + 1)
		args[i] = s
	}
	return clause + " AND table_schema IN (" + strings.Join(placeholders, ", ") + ")", args
}

// Crawl reads every table with its columns. Columns come from a single
// query and are attached to their tables in ordinal order.
func (c *Crawler) Crawl(ctx context.Context) ([]TableInfo, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	where, args := c.schemaFilter()

	tableRows, err := c.db.QueryContext(ctx, `
		SELECT table_catalog, table_schema, table_name, table_type
		FROM information_schema.tables
		WHERE `+where+`
		ORDER BY table_schema, table_name`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}

	var tables []TableInfo
	index := make(map[string]int)
	for tableRows.Next() {
		var t TableInfo
		var tableType string
		if err := tableRows.Scan(&t.Database, &t.Schema, &t.Name, &tableType); err != nil {
			_ = tableRows.Close()
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		t.Kind = state.KindTable
		if strings.EqualFold(tableType, "VIEW") {
			t.Kind = state.KindView
		}
		index[t.Schema+"."+t.Name] = len(tables)
		tables = append(tables, t)
	}
	if err := tableRows.Err(); err != nil {
		_ = tableRows.Close()
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	_ = tableRows.Close()

	colRows, err := c.db.QueryContext(ctx, `
		SELECT table_schema, table_name, column_name, data_type, ordinal_position
		FROM information_schema.columns
		WHERE `+where+`
		ORDER BY table_schema, table_name, ordinal_position`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer func() { _ = colRows.Close() }()

	for colRows.Next() {
		var schema, table string
		var col ColumnInfo
		if err := colRows.Scan(&schema, &table, &col.Name, &col.DataType, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		i, ok := index[schema+"."+table]
		if !ok {
			continue
		}
		tables[i].Columns = append(tables[i].Columns, col)
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	c.logger.Debug("crawled database", "dialect", c.dialect.Name, "tables", len(tables))
	return tables, nil
}

// Registrar is the part of the catalog a crawl writes to.
type Registrar interface {
	UpsertTable(ctx context.Context, conn *core.Connection, spec state.TableSpec) (core.Table, error)
	UpsertColumns(ctx context.Context, table core.Table, specs []state.ColumnSpec) ([]core.Column, error)
}

// Summary counts what a registration wrote.
type Summary struct {
	Connection string `json:"connection" yaml:"connection"`
	Tables     int    `json:"tables" yaml:"tables"`
	Columns    int    `json:"columns" yaml:"columns"`
	Failed     int    `json:"failed" yaml:"failed"`
	// Ambiguous counts table names that occur in more than one schema. Lineage
	// process keys omit the schema, so such tables share keys downstream.
	Ambiguous int `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`
}

// Register writes crawled tables and columns under conn. A table that fails
// to register is logged and skipped. Names repeated across schemas are
// registered but logged as ambiguous.
func Register(ctx context.Context, reg Registrar, conn *core.Connection, tables []TableInfo, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	summary := Summary{Connection: conn.Name}

	schemas := make(map[string][]string)
	for _, t := range tables {
		if !slices.Contains(schemas[t.Name], t.Schema) {
			schemas[t.Name] = append(schemas[t.Name], t.Schema)
		}
	}
	for _, t := range tables {
		if s := schemas[t.Name]; len(s) > 1 {
			summary.Ambiguous++
			logger.Warn("table name occurs in several schemas; lineage keys will collide",
				"connection", conn.Name, "table", t.Name, "schemas", s)
			delete(schemas, t.Name)
		}
	}

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		table, err := reg.UpsertTable(ctx, conn, state.TableSpec{
			Name:     t.Name,
			Database: t.Database,
			Schema:   t.Schema,
			Kind:     t.Kind,
		})
		if err != nil {
			summary.Failed++
			logger.Warn("failed to register table", "table", t.Schema+"."+t.Name, "error", err)
			continue
		}

		specs := make([]state.ColumnSpec, len(t.Columns))
		for i, col := range t.Columns {
			specs[i] = state.ColumnSpec{
				Name:     col.Name,
				DataType: col.DataType,
				Order:    core.IntPtr(col.Position),
			}
		}
		cols, err := reg.UpsertColumns(ctx, table, specs)
		if err != nil {
			summary.Failed++
			logger.Warn("failed to register columns", "table", t.Schema+"."+t.Name, "error", err)
			continue
		}

		summary.Tables++
		summary.Columns += len(cols)
	}

	logger.Info("registered tables", "connection", conn.Name, "tables", summary.Tables, "columns", summary.Columns, "failed", summary.Failed, "ambiguous", summary.Ambiguous)
	return summary, nil
}
