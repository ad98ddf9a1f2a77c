package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

type fakeLister struct {
	recs []*models.CaptionRecord
	err  error
}

func (f *fakeLister) ListCaptions(context.Context) ([]*models.CaptionRecord, error) {
	return f.recs, f.err
}

func records(n int) []*models.CaptionRecord {
	recs := make([]*models.CaptionRecord, n)
	for i := range recs {
		recs[i] = &models.CaptionRecord{
			ImageKey:     fmt.Sprintf("uploads/%02d.png", i),
			ThumbnailKey: fmt.Sprintf("thumbs/%02d.png", i),
		}
	}
	return recs
}

func TestBuildGallery_KeepsStoreOrder(t *testing.T) {
	recs := records(20)
	recs[3].Caption = strPtr("three")

	gw := newFakeGateway()
	// earlier records finish last
	gw.signDelay = func(key string) time.Duration {
		var i int
		_, _ = fmt.Sscanf(key, "uploads/%02d.png", &i)
		return time.Duration(20-i) * time.Millisecond
	}

	svc := NewGalleryService(&fakeLister{recs: recs}, gw, GalleryOptions{Concurrency: 5}, nopLogger())
	items, err := svc.BuildGallery(context.Background())
	require.NoError(t, err)
	require.Len(t, items, len(recs))

	for i, it := range items {
		assert.Contains(t, it.OriginalURL, recs[i].ImageKey)
		assert.Contains(t, it.ThumbnailURL, recs[i].ThumbnailKey)
	}
	require.NotNil(t, items[3].Caption)
	assert.Equal(t, "three", *items[3].Caption)
	assert.Nil(t, items[4].Caption)
	assert.Len(t, gw.signed, 2*len(recs))
}

func TestBuildGallery_DefaultTTL(t *testing.T) {
	gw := newFakeGateway()
	svc := NewGalleryService(&fakeLister{recs: records(1)}, gw, GalleryOptions{}, nopLogger())

	items, err := svc.BuildGallery(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3600*time.Second, gw.lastTTL)
	assert.Contains(t, items[0].OriginalURL, "ttl=3600")
}

func TestBuildGallery_Empty(t *testing.T) {
	gw := newFakeGateway()
	svc := NewGalleryService(&fakeLister{recs: []*models.CaptionRecord{}}, gw, GalleryOptions{}, nopLogger())

	items, err := svc.BuildGallery(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Empty(t, gw.signed)
}

func TestBuildGallery_ListFailure(t *testing.T) {
	svc := NewGalleryService(&fakeLister{err: fmt.Errorf("%w: boom", common.ErrConnectionFailed)}, newFakeGateway(), GalleryOptions{}, nopLogger())

	_, err := svc.BuildGallery(context.Background())
	require.ErrorIs(t, err, common.ErrGalleryBuild)
	assert.ErrorIs(t, err, common.ErrConnectionFailed)
}

func TestBuildGallery_SigningFailureFailsWholeBuild(t *testing.T) {
	gw := newFakeGateway()
	gw.signErr["thumbs/02.png"] = fmt.Errorf("%w: region is not configured", common.ErrSigning)

	svc := NewGalleryService(&fakeLister{recs: records(5)}, gw, GalleryOptions{Concurrency: 1}, nopLogger())
	items, err := svc.BuildGallery(context.Background())

	require.ErrorIs(t, err, common.ErrGalleryBuild)
	assert.ErrorIs(t, err, common.ErrSigning)
	assert.Nil(t, items)
}

func TestBuildGallery_ImageSigningFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.signErr["uploads/00.png"] = errors.New("no credentials")

	svc := NewGalleryService(&fakeLister{recs: records(1)}, gw, GalleryOptions{}, nopLogger())
	_, err := svc.BuildGallery(context.Background())
	require.ErrorIs(t, err, common.ErrGalleryBuild)
	assert.ErrorContains(t, err, "no credentials")
}
