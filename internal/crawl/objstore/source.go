package objstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Object is one listed object.
type Object struct {
	Key          string    `json:"key" yaml:"key"`
	Size         int64     `json:"size" yaml:"size"`
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`
	ETag         string    `json:"etag" yaml:"etag"`
	ContentType  string    `json:"content_type" yaml:"content_type"`
	StorageClass string    `json:"storage_class" yaml:"storage_class"`
}

// Source is a bucket the crawler can list and sample.
type Source interface {
	// Bucket returns the bucket name.
	Bucket() string
	// List returns every object under prefix in listing order.
	List(ctx context.Context, prefix string) ([]Object, error)
	// Head reads at most n bytes from the start of the object, or the whole
	// object when n <= 0.
	Head(ctx context.Context, key string, n int64) ([]byte, error)
}

// Config describes the bucket to crawl.
type Config struct {
	Endpoint  string `koanf:"endpoint" json:"endpoint" yaml:"endpoint"`
	Region    string `koanf:"region" json:"region,omitempty" yaml:"region,omitempty"`
	Bucket    string `koanf:"bucket" json:"bucket" yaml:"bucket"`
	Prefix    string `koanf:"prefix" json:"prefix,omitempty" yaml:"prefix,omitempty"`
	AccessKey string `koanf:"access_key" json:"-" yaml:"-"`
	SecretKey string `koanf:"secret_key" json:"-" yaml:"-"`
	UseSSL    bool   `koanf:"use_ssl" json:"use_ssl" yaml:"use_ssl"`
	// SampleBytes is how much of each CSV object is read (default 10000).
	SampleBytes int64 `koanf:"sample_bytes" json:"sample_bytes" yaml:"sample_bytes"`
	// SampleRows is how many data rows drive type inference (default 100).
	SampleRows int `koanf:"sample_rows" json:"sample_rows" yaml:"sample_rows"`
	// Concurrency bounds parallel sampling (default 4).
	Concurrency int `koanf:"concurrency" json:"concurrency" yaml:"concurrency"`
}

// Sampling defaults.
const (
	DefaultSampleBytes = 10000
	DefaultSampleRows  = 100
	DefaultConcurrency = 4
)

func (c Config) withDefaults() Config {
	if c.SampleBytes <= 0 {
		c.SampleBytes = DefaultSampleBytes
	}
	if c.SampleRows <= 0 {
		c.SampleRows = DefaultSampleRows
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	return c
}

// MinioSource lists and reads objects through minio-go.
type MinioSource struct {
	client *minio.Client
	bucket string
}

// NewMinioSource creates a client for cfg. No request is made until the
// first List or Head.
func NewMinioSource(cfg Config) (*MinioSource, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	// An explicit scheme decides TLS; use_ssl only applies to bare host:port.
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	var creds *credentials.Credentials
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewEnvAWS()
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioSource{client: client, bucket: cfg.Bucket}, nil
}

// Bucket implements Source.
func (s *MinioSource) Bucket() string {
	return s.bucket
}

// List implements Source.
func (s *MinioSource) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list objects in %s: %w", s.bucket, info.Err)
		}
		objects = append(objects, Object{
			Key:          info.Key,
			Size:         info.Size,
			LastModified: info.LastModified,
			ETag:         info.ETag,
			ContentType:  info.ContentType,
			StorageClass: info.StorageClass,
		})
	}
	return objects, nil
}

// Head implements Source. A positive n issues a ranged GET.
func (s *MinioSource) Head(ctx context.Context, key string, n int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	if n > 0 {
		if err := opts.SetRange(0, n-1); err != nil {
			return nil, err
		}
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer func() { _ = obj.Close() }()

	var r io.Reader = obj
	if n > 0 {
		r = io.LimitReader(obj, n)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}
