// Package s3 stores featured-image assets in an S3-compatible bucket for
// self-hosted deployments, implementing studiogen.AssetStore.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// Config options for the S3 asset store.
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
	KeyPrefix       string // Optional key prefix, e.g. "assets/images"
	PublicBaseURL   string // Optional CDN/base URL used to build asset URLs
	PresignDuration int    // Duration in seconds for presigned URLs (default: 3600)
}

// Store is an S3-compatible implementation of studiogen.AssetStore.
type Store struct {
	client          *s3.Client
	presignClient   *s3.PresignClient
	bucket          string
	keyPrefix       string
	publicBaseURL   string
	presignDuration time.Duration
}

// New creates an S3 asset store.
func New(config Config) (*Store, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if config.Region == "" {
		config.Region = "us-east-1"
	}
	if config.PresignDuration == 0 {
		config.PresignDuration = 3600
	}

	var awsCfg aws.Config
	var err error
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	return &Store{
		client:          client,
		presignClient:   s3.NewPresignClient(client),
		bucket:          config.Bucket,
		keyPrefix:       strings.Trim(config.KeyPrefix, "/"),
		publicBaseURL:   strings.TrimRight(config.PublicBaseURL, "/"),
		presignDuration: time.Duration(config.PresignDuration) * time.Second,
	}, nil
}

var _ studiogen.AssetStore = (*Store)(nil)

// UploadImage streams the image into the bucket with attribution metadata
// attached as object metadata, and returns the new object's reference.
func (s *Store) UploadImage(ctx context.Context, r io.Reader, meta studiogen.AssetMetadata) (*studiogen.AssetRef, error) {
	key := s.objectKey(meta)

	uploader := manager.NewUploader(s.client)
	input := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		Body:     r,
		Metadata: attributionMetadata(meta),
	}
	if meta.MimeType != "" {
		input.ContentType = aws.String(meta.MimeType)
	}

	if _, err := uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	url, err := s.assetURL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &studiogen.AssetRef{ID: key, URL: url}, nil
}

func (s *Store) objectKey(meta studiogen.AssetMetadata) string {
	name := meta.Filename
	if name == "" {
		name = uuid.New().String() + ".jpg"
	}
	// A uuid segment keeps repeated uploads of the same source distinct.
	key := fmt.Sprintf("%s/%s", uuid.New(), name)
	if s.keyPrefix != "" {
		key = s.keyPrefix + "/" + key
	}
	return key
}

func (s *Store) assetURL(ctx context.Context, key string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	result, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignDuration
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned asset URL: %w", err)
	}
	return result.URL, nil
}

func attributionMetadata(meta studiogen.AssetMetadata) map[string]string {
	out := make(map[string]string)
	if meta.SourceName != "" {
		out["source-name"] = meta.SourceName
	}
	if meta.SourceID != "" {
		out["source-id"] = meta.SourceID
	}
	if meta.SourceURL != "" {
		out["source-url"] = meta.SourceURL
	}
	if meta.CreditLine != "" {
		out["credit-line"] = meta.CreditLine
	}
	if meta.Description != "" {
		out["description"] = meta.Description
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
