// Package dbconn opens relational connections using credentials resolved
// from the secret store.
package dbconn

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/multierr"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/dbx"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/metrics"
	"github.com/dmitrijs2005/gophgallery/internal/server/secrets"
)

// Connection is a scoped relational connection. Callers must Close it on
// every path, error paths included.
type Connection interface {
	dbx.DBTX
	dbx.TxBeginner
	Close() error
}

// Factory hands out connections.
type Factory interface {
	Open(ctx context.Context) (Connection, error)
}

// SecretResolver is implemented by secrets.Resolver.
type SecretResolver interface {
	ResolveDBSecret(ctx context.Context, secretID string) (*secrets.Bundle, error)
}

// Options configure how a factory reaches the database.
type Options struct {
	Driver   string
	SecretID string
	// Params are appended to the DSN (e.g. tls=true, sslmode=require).
	Params map[string]string
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// SecretFactory opens a fresh database handle for every Open call, after
// resolving the credentials from the secret store. Nothing is shared
// between calls.
type SecretFactory struct {
	resolver SecretResolver
	opts     Options
	logger   logging.Logger
}

func NewSecretFactory(r SecretResolver, opts Options, logger logging.Logger) *SecretFactory {
	return &SecretFactory{resolver: r, opts: opts, logger: logger.With("module", "dbconn")}
}

// Open resolves the secret and returns a live connection. Secret errors are
// returned as is; transport failures match common.ErrConnectionFailed.
func (f *SecretFactory) Open(ctx context.Context) (Connection, error) {
	db, err := openDB(ctx, f.resolver, f.opts)
	if err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		metrics.DBConnections.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, multierr.Append(fmt.Errorf("%w: %w", common.ErrConnectionFailed, err), db.Close())
	}

	metrics.DBConnections.WithLabelValues(metrics.ResultSuccess).Inc()
	return &scopedConn{Conn: conn, db: db}, nil
}

// OpenDB resolves credentials and returns a pinged *sql.DB owned by the
// caller. Schema migrations use it since goose needs a full handle.
func OpenDB(ctx context.Context, r SecretResolver, opts Options) (*sql.DB, error) {
	return openDB(ctx, r, opts)
}

// openDB resolves credentials and returns a pinged handle.
func openDB(ctx context.Context, r SecretResolver, opts Options) (*sql.DB, error) {
	bundle, err := r.ResolveDBSecret(ctx, opts.SecretID)
	if err != nil {
		return nil, err
	}

	dsn, err := BuildDSN(opts.Driver, bundle, opts.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConnectionFailed, err)
	}

	db, err := sqlOpen(opts.Driver, dsn)
	if err != nil {
		metrics.DBConnections.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("%w: %w", common.ErrConnectionFailed, err)
	}

	if err := db.PingContext(ctx); err != nil {
		metrics.DBConnections.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, multierr.Append(fmt.Errorf("%w: %w", common.ErrConnectionFailed, err), db.Close())
	}

	return db, nil
}

// scopedConn owns both the connection and its private *sql.DB.
type scopedConn struct {
	*sql.Conn
	db *sql.DB
}

func (c *scopedConn) Close() error {
	return multierr.Append(c.Conn.Close(), c.db.Close())
}
