package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophgallery/internal/dbx"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/captions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Captions(db dbx.DBTX) captions.Repository
}
