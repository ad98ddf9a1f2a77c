// Package repomanager vends driver-aware repository implementations and
// runs the embedded schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/gophgallery/internal/dbx"
	"github.com/dmitrijs2005/gophgallery/internal/server/dbconn"
	"github.com/dmitrijs2005/gophgallery/internal/server/migrations"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/captions"
)

// DriverSQLite is accepted for local runs and tests.
const DriverSQLite = "sqlite"

// SQLRepositoryManager binds repositories to a DBTX using the SQL flavour of
// the configured driver.
type SQLRepositoryManager struct {
	driver string
}

// Captions returns a captions.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Captions(db dbx.DBTX) captions.Repository {
	return captions.NewSQLRepository(db, m.driver)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and applies the
// pending ones.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	dialect, err := gooseDialect(m.driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func gooseDialect(driver string) (string, error) {
	switch driver {
	case dbconn.DriverPostgres:
		return "pgx", nil
	case dbconn.DriverMySQL:
		return "mysql", nil
	case DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", driver)
	}
}

// NewSQLRepositoryManager constructs a RepositoryManager for driver.
func NewSQLRepositoryManager(driver string) (RepositoryManager, error) {
	if _, err := gooseDialect(driver); err != nil {
		return nil, err
	}
	return &SQLRepositoryManager{driver: driver}, nil
}
