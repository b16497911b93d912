package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
)

// SQLLinkRepository реализует LinkRepository поверх SQL-базы
type SQLLinkRepository struct {
	db      Database
	logger  *zap.Logger
	timeout time.Duration
}

// NewSQLLinkRepository создаёт новый экземпляр SQLLinkRepository.
// timeout ограничивает время одного запроса, 0 отключает ограничение.
func NewSQLLinkRepository(db Database, logger *zap.Logger, timeout time.Duration) *SQLLinkRepository {
	return &SQLLinkRepository{
		db:      db,
		logger:  logger,
		timeout: timeout,
	}
}

// Resolve возвращает URL по короткому коду без учёта регистра
func (r *SQLLinkRepository) Resolve(ctx context.Context, code string) (string, bool, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	conn, dialect, err := r.db.Connect(ctx)
	if err != nil {
		r.logger.Error("Failed to connect to database", zap.Error(err))
		return "", false, &StorageError{Op: "connect", Err: err}
	}

	var url string
	err = conn.GetContext(ctx, &url, conn.Rebind(linkLookupQuery(dialect)), code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Failed to get URL from database", zap.String("short_url", code), zap.Error(err))
		return "", false, &StorageError{Op: "resolve", Err: err}
	}
	return url, true, nil
}
