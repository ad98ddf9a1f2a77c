// Package captions persists the association between stored objects and
// their metadata in the captions table.
package captions

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

type Repository interface {
	// List returns every record, newest upload first.
	List(ctx context.Context) ([]*models.CaptionRecord, error)
	Insert(ctx context.Context, rec *models.CaptionRecord) error
	// Exists reports whether a row references imageKey.
	Exists(ctx context.Context, imageKey string) (bool, error)
}
