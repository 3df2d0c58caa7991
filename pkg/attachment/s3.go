package attachment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// S3Client is the subset of the S3 API used by S3Fetcher.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config contains configuration for fetching attachments from S3.
type S3Config struct {
	Region         string `env:"NOTIFY_S3_REGION"`
	AccessKeyID    string `env:"NOTIFY_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"NOTIFY_S3_SECRET_KEY"`
	Endpoint       string `env:"NOTIFY_S3_ENDPOINT"` // Optional: for S3-compatible services
	ForcePathStyle bool   `env:"NOTIFY_S3_FORCE_PATH_STYLE"`
}

// S3Fetcher downloads attachments addressed as s3://bucket/key.
type S3Fetcher struct {
	client S3Client
}

// NewS3Fetcher wraps a pre-configured client. Useful for testing with mocks.
func NewS3Fetcher(client S3Client) *S3Fetcher {
	return &S3Fetcher{client: client}
}

// NewS3FetcherFromConfig loads AWS configuration and builds an S3 client.
func NewS3FetcherFromConfig(ctx context.Context, cfg S3Config) (*S3Fetcher, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: s3 region is required", notification.ErrInvalidArgument)
	}

	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3Fetcher{client: client}, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, uri string, maxSize int64) ([]byte, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: s3 object %s not found", notification.ErrTransport, uri)
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: s3 %s: %s", notification.ErrTransport, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
		return nil, fmt.Errorf("%w: s3 get %s: %w", notification.ErrTransport, uri, err)
	}
	defer func() { _ = out.Body.Close() }()

	return readLimited(out.Body, maxSize)
}

func parseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("%w: invalid s3 uri %q", notification.ErrInvalidArgument, uri)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: s3 uri %q has no key", notification.ErrInvalidArgument, uri)
	}
	return u.Host, key, nil
}
