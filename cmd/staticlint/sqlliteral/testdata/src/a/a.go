package a

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const lookup = "SELECT url FROM urls WHERE shortUrl = ?"

func pick() string {
	return "SELECT * FROM quotations ORDER BY RANDOM() LIMIT 1"
}

func queries(ctx context.Context, db *sql.DB, code, table string) {
	db.QueryRowContext(ctx, lookup, code)
	db.QueryRowContext(ctx, "SELECT url FROM urls WHERE shortUrl = ?", code)
	db.QueryContext(ctx, "SELECT * "+"FROM quotations")
	db.QueryContext(ctx, pick())

	q := pick()
	db.Exec(q)

	db.QueryRowContext(ctx, "SELECT url FROM urls WHERE shortUrl = '"+code+"'") // want `текст SQL-запроса собран из неконстантных частей`
	db.Query(fmt.Sprintf("SELECT * FROM %s", table))                            // want `текст SQL-запроса собран из неконстантных частей`
	db.ExecContext(ctx, strings.Join([]string{"DELETE FROM", table}, " "))      // want `текст SQL-запроса собран из неконстантных частей`
	db.Prepare(("SELECT * FROM " + table))                                      // want `текст SQL-запроса собран из неконстантных частей`
}

func txQueries(tx *sql.Tx, code string) {
	tx.QueryRow(lookup, code)
	tx.QueryRow("SELECT url FROM urls WHERE shortUrl = " + code) // want `текст SQL-запроса собран из неконстантных частей`
}
