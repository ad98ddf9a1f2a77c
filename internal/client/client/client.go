package client

import (
	"context"

	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Upload(ctx context.Context, fileName string, payload []byte, caption *string) (*models.UploadResult, error)
	Gallery(ctx context.Context) ([]models.GalleryItem, error)
	Download(ctx context.Context, signedURL string) ([]byte, error)
}
