package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/dbx"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/dbconn"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/repomanager"
)

// MetadataStore reads and writes caption rows. Every call opens its own
// connection from the factory and releases it before returning.
type MetadataStore struct {
	factory     dbconn.Factory
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewMetadataStore(factory dbconn.Factory, repomanager repomanager.RepositoryManager, logger logging.Logger) *MetadataStore {
	return &MetadataStore{
		factory:     factory,
		repomanager: repomanager,
		logger:      logger.With("module", "metadata_store"),
		now:         time.Now,
	}
}

// withConn runs fn on a fresh connection. The connection is closed on every
// path and a close failure is joined to fn's error. Open failures match
// common.ErrPersistence as well as the factory's own error.
func (s *MetadataStore) withConn(ctx context.Context, fn func(conn dbconn.Connection) error) (err error) {
	conn, err := s.factory.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			s.logger.Warn(ctx, "failed to release connection", "error", cerr)
			err = multierr.Append(err, fmt.Errorf("failed to release connection: %w", cerr))
		}
	}()
	return fn(conn)
}

// ListCaptions returns all records, newest first. An empty table yields an
// empty, non-nil slice.
func (s *MetadataStore) ListCaptions(ctx context.Context) ([]*models.CaptionRecord, error) {
	var result []*models.CaptionRecord
	err := s.withConn(ctx, func(conn dbconn.Connection) error {
		var err error
		result, err = s.repomanager.Captions(conn).List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// InsertCaption stores rec. A zero UploadedAt is set to the current UTC time.
func (s *MetadataStore) InsertCaption(ctx context.Context, rec *models.CaptionRecord) error {
	s.stamp(rec)
	return s.withConn(ctx, func(conn dbconn.Connection) error {
		return s.repomanager.Captions(conn).Insert(ctx, rec)
	})
}

// CaptionExists reports whether a row already references imageKey.
func (s *MetadataStore) CaptionExists(ctx context.Context, imageKey string) (bool, error) {
	var found bool
	err := s.withConn(ctx, func(conn dbconn.Connection) error {
		var err error
		found, err = s.repomanager.Captions(conn).Exists(ctx, imageKey)
		return err
	})
	return found, err
}

// InsertCaptions stores all records in one transaction on one connection.
// Either every record is written or none is.
func (s *MetadataStore) InsertCaptions(ctx context.Context, recs ...*models.CaptionRecord) error {
	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		s.stamp(rec)
	}

	return s.withConn(ctx, func(conn dbconn.Connection) error {
		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.repomanager.Captions(tx)
			for _, rec := range recs {
				if err := repo.Insert(ctx, rec); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (s *MetadataStore) stamp(rec *models.CaptionRecord) {
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = s.now().UTC()
	}
}
