// Package server wires the gallery components together and runs the HTTP
// server until the process is signalled to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/multierr"

	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/config"
	"github.com/dmitrijs2005/gophgallery/internal/server/dbconn"
	"github.com/dmitrijs2005/gophgallery/internal/server/httpserver"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophgallery/internal/server/secrets"
	"github.com/dmitrijs2005/gophgallery/internal/server/services"
	"github.com/dmitrijs2005/gophgallery/internal/server/storage"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	resolver    *secrets.Resolver
	dbOptions   dbconn.Options
	repomanager repomanager.RepositoryManager
	server      *httpserver.HTTPServer
	closers     []func() error
}

// NewApp builds every long-lived client once. Nothing here talks to the
// network: the secret store, database and object store are first reached
// when a request needs them.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, err
	}
	app := &App{config: c, logger: logger}
	if s, ok := logger.(interface{ Sync() error }); ok {
		app.closers = append(app.closers, s.Sync)
	}

	sm, err := secrets.NewClient(ctx, secrets.ClientConfig{
		Region:       c.SecretsRegion,
		BaseEndpoint: c.SecretsEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("secrets client init error: %w", err)
	}
	app.resolver = secrets.NewResolver(sm, logger)

	app.repomanager, err = repomanager.NewSQLRepositoryManager(c.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app.dbOptions = dbconn.Options{Driver: c.DBDriver, SecretID: c.DBSecretID, Params: c.DBParams}
	var factory dbconn.Factory
	if c.DBPooled {
		pooled := dbconn.NewPooledFactory(app.resolver, app.dbOptions, dbconn.PoolOptions{}, logger)
		app.closers = append(app.closers, pooled.Shutdown)
		factory = pooled
	} else {
		factory = dbconn.NewSecretFactory(app.resolver, app.dbOptions, logger)
	}

	gateway, err := newGateway(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	store := services.NewMetadataStore(factory, app.repomanager, logger)
	gallery := services.NewGalleryService(store, gateway, services.GalleryOptions{
		TTL:         c.SignedURLTTL,
		Concurrency: c.SigningConcurrency,
	}, logger)
	uploads := services.NewUploadService(gateway, store, logger)

	app.server = httpserver.NewHTTPServer(httpserver.Options{
		Address:        c.EndpointAddrHTTP,
		MaxUploadBytes: c.MaxUploadBytes,
	}, logger, gallery, uploads)

	return app, nil
}

func newGateway(ctx context.Context, c *config.Config, logger logging.Logger) (storage.Gateway, error) {
	sc := storage.S3Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		UsePathStyle: c.S3UsePathStyle,
	}
	switch c.StorageBackend {
	case config.StorageS3, "":
		return storage.NewS3Gateway(ctx, sc, logger)
	case config.StorageMinio:
		return storage.NewMinioGateway(sc, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runMigrations applies the schema with a handle opened from the secret,
// closed again before serving starts.
func (app *App) runMigrations(ctx context.Context) (err error) {
	db, err := dbconn.OpenDB(ctx, app.resolver, app.dbOptions)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	app.logger.Info(ctx, "Running migrations", "driver", app.config.DBDriver)
	return app.repomanager.RunMigrations(ctx, db)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a stop signal arrives.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if app.config.RunMigrations {
		if err := app.runMigrations(ctx); err != nil {
			app.logger.Error(ctx, "migrations failed", "error", err)
			return multierr.Append(err, app.close())
		}
	}

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return multierr.Append(runErr, app.close())
}

func (app *App) close() error {
	var err error
	for _, c := range app.closers {
		err = multierr.Append(err, c())
	}
	return err
}
