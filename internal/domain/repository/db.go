package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventsphere/internal/common"

	"github.com/jackc/pgx/v5/pgconn"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func conn(db *sql.DB, tx *sql.Tx) dbtx {
	if tx != nil {
		return tx
	}
	return db
}

type rowScanner interface {
	Scan(dest ...any) error
}

const pgInvalidTextRepresentation = "22P02"

// lookupErr maps "no such row" and malformed ids (e.g. a non-uuid string
// compared to a uuid column) to common.ErrNotFound.
func lookupErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
		return common.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
