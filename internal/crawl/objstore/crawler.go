package objstore

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ObjectInfo is a listed object together with what sampling learned about it.
type ObjectInfo struct {
	Object
	FileFormat string     `json:"file_format" yaml:"file_format"`
	Schema     *CSVSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
	// SchemaError is set when a CSV object could not be sampled or parsed.
	SchemaError string `json:"schema_error,omitempty" yaml:"schema_error,omitempty"`
}

// TableName is the catalog table name for the object: the file name without
// extension, upper-cased.
func (o ObjectInfo) TableName() string {
	return TableName(o.Key)
}

var upper = cases.Upper(language.Und)

// TableName derives a table name from an object key.
func TableName(key string) string {
	base := path.Base(key)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return upper.String(base)
}

// FileFormat returns the lower-cased extension of key, or "unknown".
func FileFormat(key string) string {
	base := path.Base(key)
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return "unknown"
	}
	return strings.ToLower(base[i+1:])
}

// Crawler lists a bucket and samples its CSV objects.
type Crawler struct {
	source Source
	cfg    Config
	logger *slog.Logger
}

// NewCrawler creates a crawler over source.
func NewCrawler(source Source, cfg Config, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Crawler{source: source, cfg: cfg.withDefaults(), logger: logger}
}

// Crawl lists every object under the configured prefix, skipping folder
// markers, and samples CSV objects concurrently. Results keep listing order.
// Sampling failures are recorded on the object and logged; only a listing
// failure or cancellation is returned as an error.
func (c *Crawler) Crawl(ctx context.Context) ([]ObjectInfo, error) {
	listed, err := c.source.List(ctx, c.cfg.Prefix)
	if err != nil {
		return nil, err
	}

	objects := make([]ObjectInfo, 0, len(listed))
	for _, o := range listed {
		if strings.HasSuffix(o.Key, "/") {
			continue
		}
		if o.ContentType == "" {
			o.ContentType = "application/octet-stream"
		}
		if o.StorageClass == "" {
			o.StorageClass = "STANDARD"
		}
		o.ETag = strings.Trim(o.ETag, `"`)
		objects = append(objects, ObjectInfo{Object: o, FileFormat: FileFormat(o.Key)})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for i := range objects {
		if objects[i].FileFormat != "csv" {
			continue
		}
		g.Go(func() error {
			c.sample(gctx, &objects[i])
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Info("crawled bucket", "bucket", c.source.Bucket(), "prefix", c.cfg.Prefix, "objects", len(objects))
	return objects, nil
}

// sample fills in the object's schema. Each goroutine writes only its own
// element.
func (c *Crawler) sample(ctx context.Context, obj *ObjectInfo) {
	// Small objects are read whole; S3 rejects a range on an empty object.
	n := c.cfg.SampleBytes
	if obj.Size <= n {
		n = 0
	}

	data, err := c.source.Head(ctx, obj.Key, n)
	if err != nil {
		obj.SchemaError = err.Error()
		c.logger.Warn("could not sample CSV object", "key", obj.Key, "error", err)
		return
	}

	truncated := obj.Size > int64(len(data))
	schema, err := InferSchema(data, truncated, c.cfg.SampleRows)
	if err != nil {
		obj.SchemaError = err.Error()
		c.logger.Warn("could not extract CSV schema", "key", obj.Key, "error", err)
		return
	}
	obj.Schema = schema
	c.logger.Debug("sampled CSV object", "key", obj.Key, "columns", len(schema.Columns), "delimiter", schema.Delimiter)
}
