package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/lineagesync/internal/cli/output"
	"github.com/leapstack-labs/lineagesync/internal/crawl/sqlcrawl"
)

// Validate checks the parts of the configuration every command relies on.
// Source settings are checked lazily by the crawl commands that use them.
func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("catalog_path is required")
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if err := c.Matching.Validate(); err != nil {
		return fmt.Errorf("invalid matching configuration: %w", err)
	}
	return nil
}

// ValidateSQLSource checks a postgres or warehouse source before crawling.
func ValidateSQLSource(name string, c sqlcrawl.Config) error {
	typ := c.Type
	if typ == "" {
		typ = "postgres"
	}
	dialect, err := sqlcrawl.DialectFor(typ)
	if err != nil {
		return fmt.Errorf("sources.%s: %w", name, err)
	}
	if dialect.Name == sqlcrawl.DuckDB.Name {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("sources.%s.host is required\nHint: set it in lineagesync.yaml or LINEAGESYNC_SOURCES__%s__HOST", name, strings.ToUpper(name))
	}
	if c.Database == "" {
		return fmt.Errorf("sources.%s.database is required", name)
	}
	return nil
}

// ValidateS3Source checks the object store settings before crawling.
func (c *Config) ValidateS3Source() error {
	s3 := c.Sources.S3
	if s3.Endpoint == "" {
		return fmt.Errorf("sources.s3.endpoint is required\nHint: set it in lineagesync.yaml or LINEAGESYNC_SOURCES__S3__ENDPOINT")
	}
	if s3.Bucket == "" {
		return fmt.Errorf("sources.s3.bucket is required")
	}
	return nil
}
