package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/metrics"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/server/storage"
)

type CaptionWriter interface {
	InsertCaption(ctx context.Context, rec *models.CaptionRecord) error
	CaptionExists(ctx context.Context, imageKey string) (bool, error)
}

// UploadService stores uploaded files and records them for the gallery.
type UploadService struct {
	gateway  storage.Gateway
	captions CaptionWriter
	logger   logging.Logger
}

// NewUploadService wires the pipeline. With a nil captions writer uploads
// are stored but not recorded.
func NewUploadService(gateway storage.Gateway, captions CaptionWriter, logger logging.Logger) *UploadService {
	return &UploadService{gateway: gateway, captions: captions, logger: logger.With("module", "upload")}
}

// AcceptUpload writes u under uploads/<FileName> and returns the key with a
// base64 preview of the payload.
func (s *UploadService) AcceptUpload(ctx context.Context, u *models.Upload) (*models.UploadResult, error) {
	res, err := s.accept(ctx, u)
	metrics.Uploads.WithLabelValues(metrics.Outcome(err)).Inc()
	return res, err
}

func (s *UploadService) accept(ctx context.Context, u *models.Upload) (*models.UploadResult, error) {
	if u == nil || len(u.Payload) == 0 || u.FileName == "" {
		return nil, common.ErrNoFileProvided
	}

	key := storage.UploadKey(u.FileName)
	if err := s.gateway.PutObject(ctx, key, u.Payload, u.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
	}

	if s.captions != nil {
		rec := &models.CaptionRecord{ImageKey: key, ThumbnailKey: key, Caption: u.Caption}
		if err := s.captions.InsertCaption(ctx, rec); err != nil {
			if !errors.Is(err, common.ErrDuplicateKey) {
				s.compensate(ctx, key, err)
				return nil, fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
			}
			s.logger.Warn(ctx, "object overwritten, caption row kept", "key", key)
		}
	}

	s.logger.Info(ctx, "upload stored", "key", key, "bytes", len(u.Payload))
	return &models.UploadResult{
		Key:           key,
		PreviewBase64: base64.StdEncoding.EncodeToString(u.Payload),
	}, nil
}

// compensate removes an object whose metadata could not be recorded. The
// object is kept unless the database confirms that no row references key.
func (s *UploadService) compensate(ctx context.Context, key string, cause error) {
	if errors.Is(cause, common.ErrConnectionFailed) {
		s.logger.Warn(ctx, "database unreachable, object kept", "key", key)
		return
	}

	recorded, err := s.captions.CaptionExists(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "cannot tell whether object is referenced, kept", "key", key, "error", err)
		return
	}
	if recorded {
		s.logger.Warn(ctx, "object still referenced by an existing row, kept", "key", key)
		return
	}

	if err := s.gateway.DeleteObject(ctx, key); err != nil {
		s.logger.Error(ctx, "failed to remove unrecorded object", "key", key, "error", err)
	}
}
