// Package httpserver exposes the gallery and upload pipeline over HTTP.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

type GalleryBuilder interface {
	BuildGallery(ctx context.Context) ([]*models.GalleryItem, error)
}

type Uploader interface {
	AcceptUpload(ctx context.Context, u *models.Upload) (*models.UploadResult, error)
}

// Options tune the HTTP surface.
type Options struct {
	Address        string
	MaxUploadBytes int64
	AllowedOrigins []string
	// ShutdownTimeout bounds how long in-flight requests may finish.
	ShutdownTimeout time.Duration
}

type HTTPServer struct {
	opts    Options
	gallery GalleryBuilder
	uploads Uploader
	logger  logging.Logger
}

func NewHTTPServer(opts Options, l logging.Logger, gallery GalleryBuilder, uploads Uploader) *HTTPServer {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &HTTPServer{
		opts:    opts,
		gallery: gallery,
		uploads: uploads,
		logger:  l.With("module", "http_server"),
	}
}

// Router builds the chi router with all routes and middleware.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(s.accessLog)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/gallery", s.handleGallery)
	r.Post("/upload", s.handleUpload)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
