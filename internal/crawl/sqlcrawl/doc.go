// Package sqlcrawl reads table and column metadata from a live SQL database
// through information_schema and registers it in the local catalog.
//
// Two dialects are supported: PostgreSQL (through pgx) for the source
// database and DuckDB for a local warehouse. A PostgreSQL warehouse uses the
// PostgreSQL dialect as well.
package sqlcrawl
