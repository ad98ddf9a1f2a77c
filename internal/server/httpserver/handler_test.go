package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

type fakeGallery struct {
	items []*models.GalleryItem
	err   error
}

func (f *fakeGallery) BuildGallery(context.Context) ([]*models.GalleryItem, error) {
	return f.items, f.err
}

type fakeUploader struct {
	got *models.Upload
	res *models.UploadResult
	err error
}

func (f *fakeUploader) AcceptUpload(_ context.Context, u *models.Upload) (*models.UploadResult, error) {
	f.got = u
	return f.res, f.err
}

func newTestServer(g GalleryBuilder, u Uploader, maxBytes int64) http.Handler {
	return NewHTTPServer(Options{MaxUploadBytes: maxBytes}, logging.Nop(), g, u).Router()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// multipartBody builds a form with an optional file part and caption.
func multipartBody(t *testing.T, fileName, contentType string, payload []byte, caption string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fileName != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	if caption != "" {
		require.NoError(t, mw.WriteField("caption", caption))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestGallery_OK(t *testing.T) {
	caption := "sunset"
	h := newTestServer(&fakeGallery{items: []*models.GalleryItem{
		{OriginalURL: "https://s/o1", ThumbnailURL: "https://s/t1", Caption: &caption},
		{OriginalURL: "https://s/o2", ThumbnailURL: "https://s/t2"},
	}}, &fakeUploader{}, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":[
		{"originalUrl":"https://s/o1","thumbnailUrl":"https://s/t1","caption":"sunset"},
		{"originalUrl":"https://s/o2","thumbnailUrl":"https://s/t2","caption":null}
	]}`, rec.Body.String())
}

func TestGallery_Empty(t *testing.T) {
	h := newTestServer(&fakeGallery{items: []*models.GalleryItem{}}, &fakeUploader{}, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestGallery_Error(t *testing.T) {
	h := newTestServer(&fakeGallery{err: fmt.Errorf("%w: %w", common.ErrGalleryBuild, common.ErrSecretUnavailable)}, &fakeUploader{}, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "gallery build error: secret unavailable", body["error"])
}

func TestUpload_Created(t *testing.T) {
	up := &fakeUploader{res: &models.UploadResult{Key: "uploads/test.png", PreviewBase64: "aGVsbG8="}}
	h := newTestServer(&fakeGallery{}, up, 0)

	body, ct := multipartBody(t, "test.png", "image/png", []byte("hello"), "my cat")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"data":{"key":"uploads/test.png","imageData":"aGVsbG8="}}`, rec.Body.String())

	require.NotNil(t, up.got)
	assert.Equal(t, "test.png", up.got.FileName)
	assert.Equal(t, "image/png", up.got.ContentType)
	assert.Equal(t, []byte("hello"), up.got.Payload)
	require.NotNil(t, up.got.Caption)
	assert.Equal(t, "my cat", *up.got.Caption)
}

func TestUpload_KeepsClientContentType(t *testing.T) {
	up := &fakeUploader{res: &models.UploadResult{Key: "uploads/p.png"}}
	h := newTestServer(&fakeGallery{}, up, 0)

	png := []byte("\x89PNG\r\n\x1a\n0000")
	body, ct := multipartBody(t, "p.png", "application/octet-stream", png, "")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/octet-stream", up.got.ContentType)
	assert.Nil(t, up.got.Caption)
}

func TestUpload_MissingFile(t *testing.T) {
	up := &fakeUploader{}
	h := newTestServer(&fakeGallery{}, up, 0)

	body, ct := multipartBody(t, "", "", nil, "caption only")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no file provided", decode(t, rec)["error"])
	assert.Nil(t, up.got)
}

func TestUpload_NotMultipart(t *testing.T) {
	h := newTestServer(&fakeGallery{}, &fakeUploader{}, 0)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_TooLarge(t *testing.T) {
	up := &fakeUploader{}
	h := newTestServer(&fakeGallery{}, up, 1024)

	body, ct := multipartBody(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 4096), "")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, up.got)
}

func TestUpload_ErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"empty file", common.ErrNoFileProvided, http.StatusBadRequest},
		{"store failure", fmt.Errorf("%w: %w: AccessDenied", common.ErrUploadFailed, common.ErrStorageWrite), http.StatusBadGateway},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestServer(&fakeGallery{}, &fakeUploader{err: tc.err}, 0)

			body, ct := multipartBody(t, "a.png", "image/png", []byte("x"), "")
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			resp := decode(t, rec)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tc.err.Error(), resp["error"])
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(&fakeGallery{}, &fakeUploader{}, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gophgallery_http_latency_seconds")
}

func TestRequestID(t *testing.T) {
	h := newTestServer(&fakeGallery{}, &fakeUploader{}, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(&fakeGallery{}, &fakeUploader{}, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
