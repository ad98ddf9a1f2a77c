package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/metrics"
)

// MinioGateway implements Gateway with minio-go. It targets self-hosted
// S3-compatible stores and shares S3Config with S3Gateway.
type MinioGateway struct {
	client *minio.Client
	bucket string
	region string
	logger logging.Logger
	now    func() time.Time
}

// NewMinioGateway creates the client. BaseEndpoint must be an absolute URL;
// its scheme selects TLS. The region is fixed up front so presigning never
// has to look up the bucket location.
func NewMinioGateway(c S3Config, logger logging.Logger) (*MinioGateway, error) {
	u, err := url.Parse(c.BaseEndpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid minio endpoint %q", c.BaseEndpoint)
	}

	lookup := minio.BucketLookupAuto
	if c.UsePathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := minio.New(u.Host, &minio.Options{
		Creds:        credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure:       strings.EqualFold(u.Scheme, "https"),
		Region:       c.Region,
		BucketLookup: lookup,
		MaxRetries:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioGateway{
		client: client,
		bucket: c.Bucket,
		region: c.Region,
		logger: logger.With("module", "minio_gateway"),
		now:    time.Now,
	}, nil
}

func (g *MinioGateway) PutObject(ctx context.Context, key string, payload []byte, contentType string) error {
	_, err := g.client.PutObject(ctx, g.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	metrics.ObjectWrites.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		resp := minio.ToErrorResponse(err)
		g.logger.Warn(ctx, "put object failed", "key", key, "provider_error", resp.Code+": "+resp.Message)
		return fmt.Errorf("%w: put %q: %w", common.ErrStorageWrite, key, err)
	}
	return nil
}

func (g *MinioGateway) SignReadURL(ctx context.Context, key string, ttl time.Duration) (*SignedURL, error) {
	if err := checkSignable(g.bucket, g.region, key, ttl); err != nil {
		metrics.SignedURLs.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}

	signedAt := g.now()
	u, err := g.client.PresignedGetObject(ctx, g.bucket, key, ttl, nil)
	if err != nil {
		metrics.SignedURLs.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("%w: %q: %w", common.ErrSigning, key, err)
	}

	metrics.SignedURLs.WithLabelValues(metrics.ResultSuccess).Inc()
	return &SignedURL{URL: u.String(), ExpiresAt: signedAt.Add(ttl)}, nil
}

func (g *MinioGateway) DeleteObject(ctx context.Context, key string) error {
	if err := g.client.RemoveObject(ctx, g.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}
