package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tx scopes a group of repository writes to a single database transaction.
// Passing a nil Tx runs the write directly against the pool.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// querier is the query surface shared by pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func inTx(db *pgxpool.Pool, tx Tx) querier {
	if pgxTx, ok := tx.(pgx.Tx); ok {
		return pgxTx
	}
	return db
}
