// Package repository содержит доступ к хранилищу коротких ссылок и цитат.
// Хранилище используется только на чтение: SQLite, MySQL или PostgreSQL,
// опционально с кешем Redis перед поиском ссылок.
package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tempizhere/shorty/internal/models"
)

// ErrUnsupportedDSN возвращается, если по строке подключения нельзя выбрать драйвер
var ErrUnsupportedDSN = errors.New("unsupported DSN")

// StorageError оборачивает ошибку подключения или выполнения запроса
type StorageError struct {
	Op  string
	Err error
}

// Error реализует интерфейс error
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap возвращает исходную ошибку драйвера
func (e *StorageError) Unwrap() error {
	return e.Err
}

// LinkRepository определяет поиск адреса назначения по короткому коду
type LinkRepository interface {
	// Resolve возвращает URL и флаг существования; ошибка означает сбой хранилища
	Resolve(ctx context.Context, code string) (string, bool, error)
}

// QuotationRepository определяет выборку случайной цитаты
type QuotationRepository interface {
	// RandomQuotation возвращает одну случайную цитату; found=false, если выбрать нечего
	RandomQuotation(ctx context.Context) (models.Quotation, bool, error)
}

// Database определяет интерфейс для работы с подключением к базе данных
type Database interface {
	// Connect открывает подключение при первом вызове и возвращает его вместе с диалектом
	Connect(ctx context.Context) (*sqlx.DB, Dialect, error)
	// Ping проверяет соединение с базой данных
	Ping(ctx context.Context) error
	// Close закрывает соединение с базой данных
	Close() error
}
