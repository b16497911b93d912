package repository

import "github.com/jmoiron/sqlx"

// Dialect определяет вариант SQL, на котором говорит подключённая база
type Dialect int

const (
	// DialectUnknown означает, что драйвер не распознан
	DialectUnknown Dialect = iota
	// DialectSQLite соответствует драйверу sqlite3
	DialectSQLite
	// DialectMySQL соответствует драйверу mysql
	DialectMySQL
	// DialectPostgres соответствует драйверам pgx и postgres
	DialectPostgres
)

// ProbeDialect определяет диалект по имени драйвера подключения
func ProbeDialect(conn *sqlx.DB) Dialect {
	if conn == nil {
		return DialectUnknown
	}
	return dialectForDriver(conn.DriverName())
}

func dialectForDriver(name string) Dialect {
	switch name {
	case "sqlite3", "sqlite":
		return DialectSQLite
	case "mysql":
		return DialectMySQL
	case "pgx", "postgres":
		return DialectPostgres
	default:
		return DialectUnknown
	}
}

// IsSQLite сообщает, что база ведёт себя как SQLite
func (d Dialect) IsSQLite() bool { return d == DialectSQLite }

// IsMySQL сообщает, что база ведёт себя как MySQL
func (d Dialect) IsMySQL() bool { return d == DialectMySQL }

// IsPostgres сообщает, что база ведёт себя как PostgreSQL
func (d Dialect) IsPostgres() bool { return d == DialectPostgres }

// String возвращает имя диалекта для логов и метрик
func (d Dialect) String() string {
	switch d {
	case DialectSQLite:
		return "sqlite"
	case DialectMySQL:
		return "mysql"
	case DialectPostgres:
		return "postgres"
	default:
		return "unknown"
	}
}

// linkLookupQuery возвращает запрос поиска ссылки с плейсхолдером «?».
// В PostgreSQL сравнение по умолчанию чувствительно к регистру, поэтому обе стороны приводятся к нижнему.
func linkLookupQuery(d Dialect) string {
	if d.IsPostgres() {
		return "SELECT url FROM urls WHERE lower(shortUrl) = lower(?)"
	}
	return "SELECT url FROM urls WHERE shortUrl = ?"
}

// randomQuotationQuery возвращает запрос выборки одной случайной строки.
// Для PostgreSQL нужно расширение tsm_system_rows.
func randomQuotationQuery(d Dialect) (string, bool) {
	switch d {
	case DialectSQLite:
		return "SELECT * FROM quotations ORDER BY RANDOM() LIMIT 1", true
	case DialectMySQL:
		return "SELECT * FROM quotations ORDER BY RAND() LIMIT 1", true
	case DialectPostgres:
		return "SELECT * FROM quotations TABLESAMPLE SYSTEM_ROWS(1)", true
	default:
		return "", false
	}
}
