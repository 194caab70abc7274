// Package s3 exports account snapshots as JSON objects to an S3-compatible
// bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"finboard/internal/export"
)

const defaultPrefix = "finboard"

// Config holds construction parameters. Credentials come from the default
// AWS chain (AWS_ACCESS_KEY_ID, shared config, instance role).
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for MinIO and other compatible stores
	PathStyle bool
	Prefix    string
}

type Exporter struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ export.Exporter = (*Exporter)(nil)

// New creates an exporter from cfg. optFns are applied to the S3 client
// after the config-derived options.
func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*Exporter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Exporter{client: s3.NewFromConfig(awsCfg, opts...), bucket: cfg.Bucket, prefix: prefix}, nil
}

func (e *Exporter) Name() string { return "s3" }

// Key returns the object key holding userID's latest snapshot.
func (e *Exporter) Key(userID string) string {
	return path.Join(e.prefix, userID, "accounts.json")
}

// Export overwrites the user's snapshot object.
func (e *Exporter) Export(ctx context.Context, s export.Snapshot) error {
	if s.UserID == "" {
		return export.ErrEmptyUser
	}
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	key := e.Key(s.UserID)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	slog.InfoContext(ctx, "Exported accounts snapshot to bucket",
		"bucket", e.bucket, "key", key, "size", len(body))
	return nil
}
