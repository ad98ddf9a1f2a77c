// Package storage talks to the object store: it writes uploaded payloads and
// mints expiring signed read URLs for private objects.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
)

// UploadPrefix namespaces newly uploaded objects.
const UploadPrefix = "uploads/"

// MaxPresignTTL is the longest validity SigV4 presigned URLs support.
const MaxPresignTTL = 7 * 24 * time.Hour

// SignedURL is an expiring read grant for one object. It is computed on
// demand and never stored.
type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// Gateway is the object store as seen by the services.
type Gateway interface {
	// PutObject stores payload at key, replacing any existing object.
	PutObject(ctx context.Context, key string, payload []byte, contentType string) error
	// SignReadURL returns a URL granting read access to key for ttl. It does
	// not check that the object exists and makes no network call.
	SignReadURL(ctx context.Context, key string, ttl time.Duration) (*SignedURL, error)
	// DeleteObject removes key. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, key string) error
}

// UploadKey derives the storage key for an uploaded file. The name is used
// verbatim, so uploading the same name twice overwrites the first object.
func UploadKey(fileName string) string {
	return UploadPrefix + fileName
}

// checkSignable validates the local inputs of a signing request.
func checkSignable(bucket, region, key string, ttl time.Duration) error {
	switch {
	case region == "":
		return fmt.Errorf("%w: region is not configured", common.ErrSigning)
	case bucket == "":
		return fmt.Errorf("%w: bucket is not configured", common.ErrSigning)
	case key == "":
		return fmt.Errorf("%w: empty key", common.ErrSigning)
	case ttl <= 0:
		return fmt.Errorf("%w: ttl must be positive, got %s", common.ErrSigning, ttl)
	case ttl > MaxPresignTTL:
		return fmt.Errorf("%w: ttl %s exceeds %s", common.ErrSigning, ttl, MaxPresignTTL)
	}
	return nil
}
