package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"

	"github.com/dmitrijs2005/gophgallery/internal/filex"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

// Download fetches originals from the last listing. Signed URLs expire, so a
// stale listing should be refreshed with list first.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: download <n|all>")
	}

	if a.items == nil {
		items, err := a.client.Gallery(ctx)
		if err != nil {
			return err
		}
		a.items = items
	}

	var targets []models.GalleryItem
	if args[0] == "all" {
		targets = a.items
	} else {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(a.items) {
			return fmt.Errorf("no gallery item %q (have %d)", args[0], len(a.items))
		}
		targets = []models.GalleryItem{a.items[n-1]}
	}

	dir, err := filex.EnsureSubdDir(a.config.DownloadDir)
	if err != nil {
		return err
	}

	for _, it := range targets {
		data, err := a.client.Download(ctx, it.OriginalURL)
		if err != nil {
			return err
		}
		p, err := filex.SaveInDir(dir, fileNameFromURL(it.OriginalURL), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "saved %s\n", p)
	}
	return nil
}

// fileNameFromURL returns the last path segment of a signed URL, which is
// the object's file name.
func fileNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "download"
	}
	return path.Base(u.Path)
}
