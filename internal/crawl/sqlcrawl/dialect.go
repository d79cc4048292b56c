package sqlcrawl

import (
	"fmt"

	"github.com/leapstack-labs/lineagesync/pkg/core"
)

// Dialect captures what differs between the supported databases.
type Dialect struct {
	Name      string
	Connector core.ConnectorType
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
}

// Postgres uses $n placeholders.
var Postgres = Dialect{
	Name:        "postgres",
	Connector:   core.ConnectorPostgres,
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

// DuckDB uses ? placeholders.
var DuckDB = Dialect{
	Name:        "duckdb",
	Connector:   core.ConnectorDuckDB,
	Placeholder: func(int) string { return "?" },
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case "postgres", "postgresql":
		return Postgres, nil
	case "duckdb":
		return DuckDB, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database type %q", name)
	}
}
