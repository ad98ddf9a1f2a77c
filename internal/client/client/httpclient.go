package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/netx"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL. A nil
// httpClient means http.DefaultClient.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := netx.Get(ctx, c.http, c.baseURL+"/health")
	return mapError(err)
}

func (c *HTTPClient) Upload(ctx context.Context, fileName string, payload []byte, caption *string) (*models.UploadResult, error) {
	fields := map[string]string{}
	if caption != nil {
		fields["caption"] = *caption
	}

	body, err := netx.PostFile(ctx, c.http, c.baseURL+"/upload", "file", fileName, payload, fields)
	if err != nil {
		return nil, mapError(err)
	}

	var res models.UploadResult
	if err := decode(body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Gallery(ctx context.Context) ([]models.GalleryItem, error) {
	body, err := netx.Get(ctx, c.http, c.baseURL+"/gallery")
	if err != nil {
		return nil, mapError(err)
	}

	items := []models.GalleryItem{}
	if err := decode(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) Download(ctx context.Context, signedURL string) ([]byte, error) {
	b, err := netx.Get(ctx, c.http, signedURL)
	if err != nil {
		var se *netx.StatusError
		if errors.As(err, &se) && (se.StatusCode == http.StatusForbidden || se.StatusCode == http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrLinkExpired, se.Status)
		}
		return nil, mapError(err)
	}
	return b, nil
}

func decode(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrServer, err)
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrServer, env.Error)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %w", ErrServer, err)
	}
	return nil
}

// mapError turns transport and status failures into the package sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	msg := se.Status
	var env envelope
	if json.Unmarshal(se.Body, &env) == nil && env.Error != "" {
		msg = env.Error
	}

	switch {
	case se.StatusCode == http.StatusBadGateway:
		return fmt.Errorf("%w: %s", common.ErrUploadFailed, msg)
	case se.StatusCode >= 400 && se.StatusCode < 500:
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	default:
		return fmt.Errorf("%w: %s", ErrServer, msg)
	}
}
