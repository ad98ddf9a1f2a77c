package storage

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/testutil/fakes3"
)

func newTestMinioGateway(t *testing.T, srv *fakes3.Server) *MinioGateway {
	t.Helper()
	g, err := NewMinioGateway(S3Config{
		Bucket:       testBucket,
		Region:       "us-east-1",
		BaseEndpoint: srv.URL,
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		UsePathStyle: true,
	}, logging.Nop())
	require.NoError(t, err)
	return g
}

func TestMinioGateway_PutThenSign(t *testing.T) {
	srv := fakes3.New(t)
	g := newTestMinioGateway(t, srv)
	ctx := context.Background()

	require.NoError(t, g.PutObject(ctx, "uploads/test.png", []byte("hello"), "image/png"))

	obj, ok := srv.Object(testBucket, "uploads/test.png")
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), obj.Body)
	assert.Equal(t, "image/png", obj.ContentType)

	signed, err := g.SignReadURL(ctx, "uploads/test.png", time.Hour)
	require.NoError(t, err)
	status, body := fetch(t, signed.URL)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []byte("hello"), body)
}

func TestMinioGateway_PutFailure(t *testing.T) {
	srv := fakes3.New(t)
	srv.FailPuts(http.StatusForbidden, "AccessDenied", "Access Denied")
	g := newTestMinioGateway(t, srv)

	err := g.PutObject(context.Background(), "uploads/x.png", []byte("x"), "image/png")
	require.ErrorIs(t, err, common.ErrStorageWrite)
}

func TestMinioGateway_SigningNeedsRegion(t *testing.T) {
	srv := fakes3.New(t)
	g := newTestMinioGateway(t, srv)
	g.region = ""

	_, err := g.SignReadURL(context.Background(), "uploads/x.png", time.Hour)
	require.ErrorIs(t, err, common.ErrSigning)
}

func TestNewMinioGateway_RejectsRelativeEndpoint(t *testing.T) {
	_, err := NewMinioGateway(S3Config{BaseEndpoint: "localhost:9000"}, logging.Nop())
	require.Error(t, err)
}
