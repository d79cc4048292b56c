package sqlcrawl

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"  // registers the "pgx" driver
	_ "github.com/marcboeker/go-duckdb" // registers the "duckdb" driver
)

// Config describes how to reach a database.
type Config struct {
	Type     string `koanf:"type" json:"type" yaml:"type"`
	Host     string `koanf:"host" json:"host,omitempty" yaml:"host,omitempty"`
	Port     int    `koanf:"port" json:"port,omitempty" yaml:"port,omitempty"`
	Database string `koanf:"database" json:"database,omitempty" yaml:"database,omitempty"`
	User     string `koanf:"user" json:"user,omitempty" yaml:"user,omitempty"`
	Password string `koanf:"password" json:"-" yaml:"-"`
	SSLMode  string `koanf:"sslmode" json:"sslmode,omitempty" yaml:"sslmode,omitempty"`
	// Path is the DuckDB database file; empty means in-memory.
	Path string `koanf:"path" json:"path,omitempty" yaml:"path,omitempty"`
	// Schemas restricts crawling to these schemas when non-empty.
	Schemas []string `koanf:"schemas" json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// buildPostgresDSN constructs a PostgreSQL key=value connection string.
func buildPostgresDSN(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	parts := []string{
		fmt.Sprintf("host=%s", host),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("dbname=%s", cfg.Database),
		fmt.Sprintf("sslmode=%s", sslmode),
	}
	if cfg.User != "" {
		parts = append(parts, fmt.Sprintf("user=%s", cfg.User))
	}
	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", cfg.Password))
	}
	return strings.Join(parts, " ")
}

// Open connects to the database described by cfg and returns the handle
// with its dialect.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, Dialect, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	typ := cfg.Type
	if typ == "" {
		typ = "postgres"
	}
	dialect, err := DialectFor(typ)
	if err != nil {
		return nil, Dialect{}, err
	}

	var db *sql.DB
	switch dialect.Name {
	case "duckdb":
		logger.Debug("opening duckdb", slog.String("path", cfg.Path))
		db, err = OpenDuckDB(ctx, cfg.Path)
	default:
		logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
		db, err = OpenPostgres(ctx, cfg)
	}
	if err != nil {
		return nil, Dialect{}, err
	}
	return db, dialect, nil
}

// OpenPostgres connects through the pgx stdlib driver.
func OpenPostgres(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", buildPostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// OpenDuckDB opens a DuckDB database file, or an in-memory one for "".
func OpenDuckDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}
	return db, nil
}
