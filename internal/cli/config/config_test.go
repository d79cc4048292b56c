package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/lineagesync/internal/crawl/sqlcrawl"
	"github.com/leapstack-labs/lineagesync/internal/engine"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lineagesync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("catalog", "", "")
	flags.String("output", "", "")
	flags.Bool("verbose", false, "")
	flags.Int("table-threshold", 0, "")
	flags.Bool("normalize", true, "")
	flags.String("source", "", "")
	flags.Bool("dry-run", false, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, GetConfigFileUsed())
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, DefaultNamespace, cfg.ProcessNamespace)
	assert.True(t, cfg.Matching.NormalizeNames)
	assert.Equal(t, 80, cfg.Matching.TableThreshold)
	assert.Equal(t, 80, cfg.Matching.ColumnThreshold)
	assert.Equal(t, DefaultSourceConnection, cfg.Connections.Source)
	assert.Equal(t, engine.DefaultSourceToObjectStore, cfg.Stages.SourceToObjectStore)
	assert.Equal(t, "duckdb", cfg.Sources.Warehouse.Type)
	assert.Equal(t, 5432, cfg.Sources.Postgres.Port)
	assert.Equal(t, int64(10000), cfg.Sources.S3.SampleBytes)
	assert.True(t, filepath.IsAbs(cfg.CatalogPath))
	assert.Equal(t, filepath.Join(".lineagesync", "catalog.db"), filepath.Join(filepath.Base(filepath.Dir(cfg.CatalogPath)), filepath.Base(cfg.CatalogPath)))
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()

	path := writeConfig(t, `
catalog_path: state/catalog.db
output: json
process_namespace: process/acme
matching:
  normalize_names: false
  table_threshold: 70
  column_threshold: 65
connections:
  source: postgres-prod
  object_store: s3-raw
  warehouse: snowflake-prod
stages:
  source_to_object_store: "PostgreSQL to S3 ETL Process"
sources:
  postgres:
    host: db.internal
    database: shop
    schemas: [public, sales]
  s3:
    endpoint: s3.amazonaws.com
    bucket: landing
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "state", "catalog.db"), cfg.CatalogPath)
	assert.Equal(t, filepath.Dir(path), cfg.ProjectRoot)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "process/acme", cfg.ProcessNamespace)
	assert.False(t, cfg.Matching.NormalizeNames)
	assert.Equal(t, 70, cfg.Matching.TableThreshold)
	assert.Equal(t, 65, cfg.Matching.ColumnThreshold)
	assert.Equal(t, engine.Connections{Source: "postgres-prod", ObjectStore: "s3-raw", Warehouse: "snowflake-prod"}, cfg.Connections)
	assert.Equal(t, "PostgreSQL to S3 ETL Process", cfg.Stages.SourceToObjectStore)
	assert.Equal(t, engine.DefaultObjectStoreToWarehouse, cfg.Stages.ObjectStoreToWarehouse)
	assert.Equal(t, "db.internal", cfg.Sources.Postgres.Host)
	assert.Equal(t, []string{"public", "sales"}, cfg.Sources.Postgres.Schemas)
	assert.Equal(t, "landing", cfg.Sources.S3.Bucket)
	assert.True(t, cfg.Sources.S3.UseSSL)

	ecfg := cfg.EngineConfig()
	assert.Equal(t, cfg.Matching, ecfg.Match)
	assert.Equal(t, cfg.Connections, ecfg.Connections)
	assert.Equal(t, "process/acme", ecfg.Namespace)
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	ResetConfig()

	path := writeConfig(t, "output: markdown\n")
	nested := filepath.Join(filepath.Dir(path), "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, "lineagesync.yaml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()

	path := writeConfig(t, `
matching:
  table_threshold: 70
connections:
  source: from_file
`)
	t.Setenv("LINEAGESYNC_MATCHING__TABLE_THRESHOLD", "75")
	t.Setenv("LINEAGESYNC_CONNECTIONS__SOURCE", "from_env")
	t.Setenv("LINEAGESYNC_OUTPUT", "yaml")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.Matching.TableThreshold)
	assert.Equal(t, "from_env", cfg.Connections.Source)
	assert.Equal(t, "yaml", cfg.OutputFormat)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()

	path := writeConfig(t, `
matching:
  table_threshold: 70
connections:
  source: from_file
`)
	t.Setenv("LINEAGESYNC_CONNECTIONS__SOURCE", "from_env")

	flags := testFlags()
	require.NoError(t, flags.Set("source", "from_flag"))
	require.NoError(t, flags.Set("table-threshold", "90"))
	require.NoError(t, flags.Set("normalize", "false"))
	require.NoError(t, flags.Set("dry-run", "true"))
	require.NoError(t, flags.Set("catalog", "custom.db"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.Connections.Source)
	assert.Equal(t, 90, cfg.Matching.TableThreshold)
	assert.False(t, cfg.Matching.NormalizeNames)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "custom.db"), cfg.CatalogPath, "flag paths resolve against the working directory")
}

func TestLoadConfig_UnsetFlagUsesEnv(t *testing.T) {
	ResetConfig()

	path := writeConfig(t, "connections:\n  source: from_file\n")
	t.Setenv("LINEAGESYNC_CONNECTIONS__SOURCE", "from_env")

	cfg, err := LoadConfig(path, testFlags())
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Connections.Source)
	assert.Equal(t, 80, cfg.Matching.TableThreshold)
	assert.True(t, cfg.Matching.NormalizeNames)
}

func TestLoadConfig_EnvLists(t *testing.T) {
	ResetConfig()

	path := writeConfig(t, "catalog_path: catalog.db\n")
	t.Setenv("LINEAGESYNC_SOURCES__POSTGRES__SCHEMAS", "public, sales,,")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"public", "sales"}, cfg.Sources.Postgres.Schemas)
	assert.Empty(t, cfg.Sources.Warehouse.Schemas)
}

func TestLoadConfig_ExpandsSecrets(t *testing.T) {
	ResetConfig()

	t.Setenv("PG_PASSWORD", "s3cret")
	t.Setenv("AWS_KEY", "AKIA123")
	path := writeConfig(t, `
sources:
  postgres:
    host: db
    password: ${PG_PASSWORD}
  s3:
    access_key: ${AWS_KEY}
    secret_key: ${UNSET_SECRET_FOR_TEST}
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Sources.Postgres.Password)
	assert.Equal(t, "AKIA123", cfg.Sources.S3.AccessKey)
	assert.Equal(t, "${UNSET_SECRET_FOR_TEST}", cfg.Sources.S3.SecretKey)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"threshold above 100", "matching:\n  table_threshold: 101\n", "table threshold must be between 0 and 100"},
		{"negative column threshold", "matching:\n  column_threshold: -1\n", "column threshold"},
		{"unknown output", "output: html\n", "unknown output format"},
		{"empty catalog path", "catalog_path: \"\"\n", "catalog_path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.Nil(t, GetCurrentConfig())
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "matching.table_threshold", envKey("LINEAGESYNC_MATCHING__TABLE_THRESHOLD"))
	assert.Equal(t, "catalog_path", envKey("LINEAGESYNC_CATALOG_PATH"))
	assert.Equal(t, "sources.s3.secret_key", envKey("LINEAGESYNC_SOURCES__S3__SECRET_KEY"))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"multiple variables", "${TEST_VAR_ONE}/${TEST_VAR_TWO}", "value_one/value_two"},
		{"variable in dsn", "postgres://${TEST_VAR_ONE}@host/db", "postgres://value_one@host/db"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"no variables", "plain string", "plain string"},
		{"empty string", "", ""},
		{"mixed set and unset", "${TEST_VAR_ONE}:${UNSET_VAR}", "value_one:${UNSET_VAR}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestValidateSQLSource(t *testing.T) {
	tests := []struct {
		name      string
		cfg       sqlcrawl.Config
		errSubstr string
	}{
		{"duckdb needs nothing", sqlcrawl.Config{Type: "duckdb"}, ""},
		{"postgres ok", sqlcrawl.Config{Type: "postgres", Host: "db", Database: "shop"}, ""},
		{"empty type is postgres", sqlcrawl.Config{Host: "db", Database: "shop"}, ""},
		{"postgres without host", sqlcrawl.Config{Type: "postgres", Database: "shop"}, "sources.postgres.host is required"},
		{"postgres without database", sqlcrawl.Config{Type: "postgres", Host: "db"}, "sources.postgres.database is required"},
		{"unknown type", sqlcrawl.Config{Type: "oracle"}, "unsupported database type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSQLSource("postgres", tt.cfg)
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateS3Source(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.ValidateS3Source())

	cfg.Sources.S3.Endpoint = "localhost:9000"
	err := cfg.ValidateS3Source()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")

	cfg.Sources.S3.Bucket = "landing"
	assert.NoError(t, cfg.ValidateS3Source())
}

func TestGetLogger_FallsBackToDiscard(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)
	logger.Info("dropped")
}
