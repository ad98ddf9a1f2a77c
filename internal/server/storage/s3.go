package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/metrics"
)

// S3Config holds the object storage settings.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	// UsePathStyle is needed for MinIO and most S3-compatible stores.
	UsePathStyle bool
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3API is the part of *s3.Client used for writes.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Gateway implements Gateway on top of aws-sdk-go-v2. The clients are
// built once and are safe for concurrent use.
type S3Gateway struct {
	api     S3API
	presign *s3.PresignClient
	bucket  string
	region  string
	logger  logging.Logger
	now     func() time.Time
}

// NewS3Gateway builds the S3 and presign clients from c. Static credentials
// are used when AccessKey is set, otherwise the default AWS chain.
func NewS3Gateway(ctx context.Context, c S3Config, logger logging.Logger) (*S3Gateway, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
		config.WithRetryMaxAttempts(1),
	}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
		}
		o.UsePathStyle = c.UsePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &S3Gateway{
		api:     client,
		presign: s3.NewPresignClient(client),
		bucket:  c.Bucket,
		region:  c.Region,
		logger:  logger.With("module", "s3_gateway"),
		now:     time.Now,
	}, nil
}

// PutObject uploads payload. Failures match common.ErrStorageWrite and keep
// the SDK error, whose text carries the provider's code and message.
func (g *S3Gateway) PutObject(ctx context.Context, key string, payload []byte, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	_, err := g.api.PutObject(ctx, in)
	metrics.ObjectWrites.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		g.logger.Warn(ctx, "put object failed", "key", key, "provider_error", providerMessage(err))
		return fmt.Errorf("%w: put %q: %w", common.ErrStorageWrite, key, err)
	}

	g.logger.Debug(ctx, "object stored", "key", key, "bytes", len(payload), "content_type", contentType)
	return nil
}

// SignReadURL presigns a GET for key. Signing is local; the object is not
// looked up.
func (g *S3Gateway) SignReadURL(ctx context.Context, key string, ttl time.Duration) (*SignedURL, error) {
	if err := checkSignable(g.bucket, g.region, key, ttl); err != nil {
		metrics.SignedURLs.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}

	signedAt := g.now()
	req, err := presignGetObject(g.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		metrics.SignedURLs.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("%w: %q: %w", common.ErrSigning, key, err)
	}

	metrics.SignedURLs.WithLabelValues(metrics.ResultSuccess).Inc()
	return &SignedURL{URL: req.URL, ExpiresAt: signedAt.Add(ttl)}, nil
}

// DeleteObject removes key from the bucket.
func (g *S3Gateway) DeleteObject(ctx context.Context, key string) error {
	_, err := g.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// providerMessage extracts "Code: message" from smithy API errors and falls
// back to the plain error text.
func providerMessage(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return fmt.Sprintf("%s: %s", ae.ErrorCode(), ae.ErrorMessage())
	}
	return err.Error()
}
