package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tempizhere/shorty/internal/models"
	"go.uber.org/zap"
)

// quotationRow соответствует строке таблицы quotations; source может отсутствовать или быть NULL
type quotationRow struct {
	Collection string         `db:"collection"`
	Quote      string         `db:"quote"`
	Source     sql.NullString `db:"source"`
}

// SQLQuotationRepository реализует QuotationRepository поверх SQL-базы
type SQLQuotationRepository struct {
	db      Database
	logger  *zap.Logger
	timeout time.Duration
}

// NewSQLQuotationRepository создаёт новый экземпляр SQLQuotationRepository
func NewSQLQuotationRepository(db Database, logger *zap.Logger, timeout time.Duration) *SQLQuotationRepository {
	return &SQLQuotationRepository{
		db:      db,
		logger:  logger,
		timeout: timeout,
	}
}

// RandomQuotation выбирает одну случайную цитату запросом, подходящим для диалекта базы.
// Для нераспознанного диалекта возвращает found=false без ошибки.
func (r *SQLQuotationRepository) RandomQuotation(ctx context.Context) (models.Quotation, bool, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	conn, dialect, err := r.db.Connect(ctx)
	if err != nil {
		return models.Quotation{}, false, &StorageError{Op: "connect", Err: err}
	}

	query, ok := randomQuotationQuery(dialect)
	if !ok {
		r.logger.Debug("No sampling query for dialect", zap.Stringer("dialect", dialect))
		return models.Quotation{}, false, nil
	}

	var row quotationRow
	// Unsafe: таблица может содержать дополнительные столбцы
	err = conn.Unsafe().GetContext(ctx, &row, query)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Quotation{}, false, nil
	}
	if err != nil {
		return models.Quotation{}, false, &StorageError{Op: "random quotation", Err: err}
	}

	return models.Quotation{
		Collection: row.Collection,
		Quote:      row.Quote,
		Source:     row.Source.String,
	}, true, nil
}
