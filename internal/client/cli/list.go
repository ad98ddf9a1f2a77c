package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

func (a *App) List(ctx context.Context) error {
	items, err := a.client.Gallery(ctx)
	if err != nil {
		return err
	}
	a.items = items

	if !a.interactive {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	return renderTable(a, items)
}

func renderTable(a *App, items []models.GalleryItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(a.out, "gallery is empty")
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCAPTION\tFILE")
	for i, it := range items {
		caption := "-"
		if it.Caption != nil {
			caption = *it.Caption
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, caption, fileNameFromURL(it.OriginalURL))
	}
	return tw.Flush()
}
