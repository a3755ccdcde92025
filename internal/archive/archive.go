// Package archive stores the original bytes of uploaded résumés in an
// S3-compatible bucket (AWS S3 or Cloudflare R2).
package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Object is one archived upload.
type Object struct {
	UserID      uuid.UUID
	Filename    string
	ContentType string
	Suffix      string
	SHA256      string
	Data        []byte
}

// Archiver is the contract used by the ingestion service.
type Archiver interface {
	Put(ctx context.Context, obj Object) (string, error)
}

// Config holds bucket location and static credentials.
type Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes objects with PutObject.
type S3Archiver struct {
	client putObjectAPI
	bucket string
	newID  func() uuid.UUID
}

// NewS3Archiver builds an S3 client from cfg. A custom endpoint switches the
// client to path-style addressing, which R2 and MinIO expect.
func NewS3Archiver(ctx context.Context, cfg Config) (*S3Archiver, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("archive bucket is not configured")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Archiver(client, cfg.Bucket), nil
}

func newS3Archiver(client putObjectAPI, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, newID: uuid.New}
}

// Key returns the object key for an upload: resumes/<user id>/<id><suffix>.
func Key(userID uuid.UUID, id uuid.UUID, suffix string) string {
	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	return fmt.Sprintf("resumes/%s/%s%s", userID, id, suffix)
}

// Put uploads obj and returns its key.
func (a *S3Archiver) Put(ctx context.Context, obj Object) (string, error) {
	key := Key(obj.UserID, a.newID(), obj.Suffix)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(obj.Data),
		ContentLength: aws.Int64(int64(len(obj.Data))),
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	meta := map[string]string{}
	if obj.Filename != "" {
		meta["filename"] = obj.Filename
	}
	if obj.SHA256 != "" {
		meta["sha256"] = obj.SHA256
	}
	if len(meta) > 0 {
		input.Metadata = meta
	}

	if _, err := a.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", key, err)
	}
	return key, nil
}

// Noop discards objects.
type Noop struct{}

func (Noop) Put(context.Context, Object) (string, error) { return "", nil }
