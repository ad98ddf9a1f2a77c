package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/metrics"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/server/storage"
)

// DefaultSignedURLTTL is how long gallery links stay valid.
const DefaultSignedURLTTL = 3600 * time.Second

// DefaultSigningConcurrency bounds parallel signing per gallery request.
const DefaultSigningConcurrency = 8

type CaptionLister interface {
	ListCaptions(ctx context.Context) ([]*models.CaptionRecord, error)
}

type GalleryOptions struct {
	TTL         time.Duration
	Concurrency int
}

// GalleryService joins caption rows with freshly signed read URLs.
type GalleryService struct {
	captions    CaptionLister
	gateway     storage.Gateway
	ttl         time.Duration
	concurrency int
	logger      logging.Logger
}

func NewGalleryService(captions CaptionLister, gateway storage.Gateway, opts GalleryOptions, logger logging.Logger) *GalleryService {
	if opts.TTL <= 0 {
		opts.TTL = DefaultSignedURLTTL
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultSigningConcurrency
	}
	return &GalleryService{
		captions:    captions,
		gateway:     gateway,
		ttl:         opts.TTL,
		concurrency: opts.Concurrency,
		logger:      logger.With("module", "gallery"),
	}
}

// BuildGallery lists every record and signs its image and thumbnail keys.
// The result keeps the store order. A single signing failure fails the
// whole build.
func (s *GalleryService) BuildGallery(ctx context.Context) ([]*models.GalleryItem, error) {
	recs, err := s.captions.ListCaptions(ctx)
	if err != nil {
		metrics.GalleryBuilds.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("%w: %w", common.ErrGalleryBuild, err)
	}

	items := make([]*models.GalleryItem, len(recs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, rec := range recs {
		g.Go(func() error {
			original, err := s.gateway.SignReadURL(gctx, rec.ImageKey, s.ttl)
			if err != nil {
				return err
			}
			thumb, err := s.gateway.SignReadURL(gctx, rec.ThumbnailKey, s.ttl)
			if err != nil {
				return err
			}
			items[i] = &models.GalleryItem{
				OriginalURL:  original.URL,
				ThumbnailURL: thumb.URL,
				Caption:      rec.Caption,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.GalleryBuilds.WithLabelValues(metrics.ResultFailure).Inc()
		s.logger.Error(ctx, "gallery build failed", "records", len(recs), "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrGalleryBuild, err)
	}

	metrics.GalleryBuilds.WithLabelValues(metrics.ResultSuccess).Inc()
	return items, nil
}
