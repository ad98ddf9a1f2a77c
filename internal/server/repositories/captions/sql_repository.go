package captions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/dbx"
	"github.com/dmitrijs2005/gophgallery/internal/server/dbconn"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

const (
	listQuery = `SELECT image_key, thumbnail_key, caption, uploaded_at FROM captions ORDER BY uploaded_at DESC`

	insertQueryNumbered = `INSERT INTO captions (image_key, thumbnail_key, caption, uploaded_at) VALUES ($1, $2, $3, $4)`
	insertQueryPlain    = `INSERT INTO captions (image_key, thumbnail_key, caption, uploaded_at) VALUES (?, ?, ?, ?)`

	existsQueryNumbered = `SELECT COUNT(*) FROM captions WHERE image_key = $1`
	existsQueryPlain    = `SELECT COUNT(*) FROM captions WHERE image_key = ?`
)

// SQLRepository works with PostgreSQL (pgx), MySQL and SQLite. Only the
// placeholder style differs between them.
type SQLRepository struct {
	db          dbx.DBTX
	insertQuery string
	existsQuery string
}

func NewSQLRepository(db dbx.DBTX, driver string) *SQLRepository {
	if driver == dbconn.DriverPostgres {
		return &SQLRepository{db: db, insertQuery: insertQueryNumbered, existsQuery: existsQueryNumbered}
	}
	return &SQLRepository{db: db, insertQuery: insertQueryPlain, existsQuery: existsQueryPlain}
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.CaptionRecord, error) {
	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select captions: %w", common.ErrPersistence, err)
	}
	defer rows.Close()

	result := make([]*models.CaptionRecord, 0)
	for rows.Next() {
		var (
			item    models.CaptionRecord
			caption sql.NullString
		)
		if err := rows.Scan(&item.ImageKey, &item.ThumbnailKey, &caption, &item.UploadedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan caption: %w", common.ErrPersistence, err)
		}
		if caption.Valid {
			s := caption.String
			item.Caption = &s
		}
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	return result, nil
}

func (r *SQLRepository) Insert(ctx context.Context, rec *models.CaptionRecord) error {
	var caption sql.NullString
	if rec.Caption != nil {
		caption = sql.NullString{String: *rec.Caption, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, r.insertQuery, rec.ImageKey, rec.ThumbnailKey, caption, rec.UploadedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w: %q: %w", common.ErrPersistence, common.ErrDuplicateKey, rec.ImageKey, err)
		}
		return fmt.Errorf("%w: db error: %w", common.ErrPersistence, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected error: %w", common.ErrPersistence, err)
	}
	if n != 1 {
		return fmt.Errorf("%w: unexpected rows affected: %d", common.ErrPersistence, n)
	}

	return nil
}

func (r *SQLRepository) Exists(ctx context.Context, imageKey string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, r.existsQuery, imageKey).Scan(&n); err != nil {
		return false, fmt.Errorf("%w: failed to look up %q: %w", common.ErrPersistence, imageKey, err)
	}
	return n > 0, nil
}

// isUniqueViolation recognizes primary key conflicts from the supported
// drivers: PostgreSQL 23505, MySQL 1062 and SQLite constraint errors.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
