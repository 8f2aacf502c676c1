package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for the S3 report sink.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Key is the object key for the report (required).
	Key string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. Cloudflare R2, MinIO). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not subdomain).
	// Required by most S3-compatible providers (R2, MinIO, etc.).
	UsePathStyle bool
	// ContentType is the MIME type recorded on the object.
	ContentType string
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	if c.Key == "" {
		return errors.New("S3 object key is required")
	}
	return nil
}

// ParseS3Path splits an "s3://bucket/key" destination into bucket and key.
func ParseS3Path(path string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(path, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if parts[0] == "" || len(parts) < 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 destination %q (expected s3://bucket/key)", path)
	}
	return parts[0], parts[1], nil
}

// s3API is the subset of the S3 client used by the sink.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads the report to an S3-compatible object store.
// Uses the AWS SDK default credential chain (env vars, shared config,
// IAM role).
type S3Sink struct {
	client s3API
	config S3Config
}

// NewS3Sink creates an S3 sink, loading AWS configuration from the
// default chain with optional region, endpoint, and path-style
// overrides.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &S3Sink{
		client: s3.NewFromConfig(awsConfig, s3Opts...),
		config: cfg,
	}, nil
}

// Verify S3Sink implements the Sink interface.
var _ Sink = (*S3Sink)(nil)

// Write uploads the report body as one object.
func (s *S3Sink) Write(ctx context.Context, body []byte) error {
	input := &s3.PutObjectInput{
		Bucket: &s.config.Bucket,
		Key:    &s.config.Key,
		Body:   bytes.NewReader(body),
	}
	if s.config.ContentType != "" {
		input.ContentType = &s.config.ContentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload report to s3://%s/%s: %w", s.config.Bucket, s.config.Key, err)
	}
	return nil
}

// Destination returns the s3:// URL of the report object.
func (s *S3Sink) Destination() string {
	return fmt.Sprintf("s3://%s/%s", s.config.Bucket, s.config.Key)
}
