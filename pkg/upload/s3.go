package upload

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PutObjectAPI is the part of *s3.Client that S3Store uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures an S3Store.
type S3Config struct {
	Bucket string

	// Prefix is prepended to every object key (e.g. "media/").
	Prefix string

	Region string

	// Endpoint overrides the S3 endpoint, for S3-compatible providers.
	// Path-style addressing is used when it is set.
	Endpoint string

	// PublicBaseURL is the origin returned URLs are built on. If empty,
	// the virtual-hosted S3 URL for Bucket and Region is used.
	PublicBaseURL string
}

// S3Store uploads media to an S3 bucket.
//
//	awsCfg, _ := config.LoadDefaultConfig(ctx)
//	store := upload.NewS3Store(s3.NewFromConfig(awsCfg), upload.S3Config{Bucket: "lexmart-media"})
type S3Store struct {
	client PutObjectAPI
	config S3Config
	newKey func() string
	now    func() time.Time
}

var _ MediaStore = (*S3Store)(nil)

// NewS3Store returns an S3Store writing through client.
func NewS3Store(client PutObjectAPI, cfg S3Config) *S3Store {
	return &S3Store{
		client: client,
		config: cfg,
		newKey: uuid.NewString,
		now:    time.Now,
	}
}

// NewS3StoreFromConfig loads AWS credentials from the default chain and
// returns an S3Store for cfg.
func NewS3StoreFromConfig(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("upload: s3 bucket is required")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("upload: loading aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = awsCfg.Region
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Store(client, cfg), nil
}

// Upload implements MediaStore.
func (s *S3Store) Upload(ctx context.Context, path string, meta Meta) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("s3: opening spooled file: %w", err)
	}
	defer f.Close()

	key := s.config.Prefix + s.newKey() + strings.ToLower(filepath.Ext(meta.Filename))
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(meta.Size),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": meta.Filename,
			"upload-time":       s.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}
	return s.objectURL(key), nil
}

func (s *S3Store) objectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if base := strings.TrimRight(s.config.PublicBaseURL, "/"); base != "" {
		return base + "/" + escaped
	}
	region := s.config.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, region, escaped)
}
