package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/pkg/metrics"
	"github.com/Temutjin2k/bookshelf-auth/pkg/trm"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultQueryTimeout bounds a single repository call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// TxorDB returns the transaction carried by ctx or falls back to the pool.
func TxorDB(ctx context.Context, db *pgxpool.Pool) Querier {
	if tx, ok := trm.TxFromContext(ctx); ok {
		return tx
	}
	return db
}

func ignoreNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

// observe bounds ctx by timeout. The returned func must be called with the query outcome.
func observe(ctx context.Context, timeout time.Duration, op string) (context.Context, func(error)) {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	start := time.Now()

	return ctx, func(err error) {
		cancel()
		metrics.RecordDatabaseQuery(op, err, time.Since(start))
	}
}
