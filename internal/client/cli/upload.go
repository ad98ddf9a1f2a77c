package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (a *App) Upload(ctx context.Context, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else if a.interactive {
		p, err := GetSimpleText(a.reader, "File to upload", a.out)
		if err != nil {
			return err
		}
		path = p
	}
	if path == "" {
		return errors.New("usage: upload <file> [caption]")
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var caption *string
	if len(args) > 1 {
		c := strings.Join(args[1:], " ")
		caption = &c
	} else if a.interactive {
		caption, err = GetOptionalText(a.reader, "Caption (empty for none)", a.out)
		if err != nil {
			return err
		}
	}

	res, err := a.client.Upload(ctx, filepath.Base(path), payload, caption)
	if err != nil {
		return err
	}

	preview, err := base64.StdEncoding.DecodeString(res.PreviewBase64)
	if err != nil {
		return fmt.Errorf("decode preview: %w", err)
	}

	fmt.Fprintf(a.out, "uploaded %s (%d bytes)\n", res.Key, len(preview))
	return nil
}
