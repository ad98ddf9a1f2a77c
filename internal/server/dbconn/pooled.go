package dbconn

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/metrics"
)

// PoolOptions size the shared pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PooledFactory keeps one *sql.DB for the process lifetime and hands out
// pooled connections behind the same Connection contract. The secret is
// resolved when the pool is first needed and again after a failed open.
type PooledFactory struct {
	resolver SecretResolver
	opts     Options
	pool     PoolOptions
	logger   logging.Logger

	mu sync.Mutex
	db *sql.DB
}

func NewPooledFactory(r SecretResolver, opts Options, pool PoolOptions, logger logging.Logger) *PooledFactory {
	return &PooledFactory{resolver: r, opts: opts, pool: pool, logger: logger.With("module", "dbconn_pool")}
}

func (f *PooledFactory) handle(ctx context.Context) (*sql.DB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.db != nil {
		return f.db, nil
	}

	db, err := openDB(ctx, f.resolver, f.opts)
	if err != nil {
		return nil, err
	}
	if f.pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(f.pool.MaxOpenConns)
	}
	if f.pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(f.pool.MaxIdleConns)
	}
	if f.pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(f.pool.ConnMaxLifetime)
	}

	f.logger.Info(ctx, "database pool opened", "driver", f.opts.Driver)
	f.db = db
	return db, nil
}

// Open checks a connection out of the pool. Close returns it.
func (f *PooledFactory) Open(ctx context.Context) (Connection, error) {
	db, err := f.handle(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		metrics.DBConnections.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("%w: %w", common.ErrConnectionFailed, err)
	}

	metrics.DBConnections.WithLabelValues(metrics.ResultSuccess).Inc()
	return conn, nil
}

// Shutdown closes the pool. It is safe to call when the pool was never opened.
func (f *PooledFactory) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.db == nil {
		return nil
	}
	err := f.db.Close()
	f.db = nil
	return err
}
