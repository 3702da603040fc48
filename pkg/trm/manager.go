package trm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Beginner starts transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Manager runs functions inside a pgx transaction carried in the context.
// Repositories pick the transaction up with TxFromContext.
type Manager struct {
	db      Beginner
	timeout time.Duration
}

type Option func(*Manager)

// WithTimeout bounds BeginTx, which waits for a pool connection, and Commit.
// Zero leaves them bounded only by the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// New returns a new Transaction Manager
func New(db Beginner, opts ...Option) *Manager {
	m := &Manager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.timeout)
}

type ctxKeyTx struct{}

var txKey = ctxKeyTx{}

// TxFromContext returns the transaction started by Do, if any.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// Do executes fn within a read-write transaction.
// When ctx already carries a transaction, fn joins it and the outer Do decides commit or rollback.
// The transaction is rolled back if fn returns an error or panics, committed otherwise.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, pgx.TxOptions{}, fn)
}

// DoReadOnly executes fn within a read-only transaction.
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (m *Manager) do(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	beginCtx, cancelBegin := m.bounded(ctx)
	tx, err := m.db.BeginTx(beginCtx, opts)
	cancelBegin()
	if err != nil {
		return fmt.Errorf("failed to start new transaction: %w", err)
	}
	txCtx := context.WithValue(ctx, txKey, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("failed to rollback tx: %v (original error: %w)", rbErr, err)
			}
			return
		}

		commitCtx, cancelCommit := m.bounded(ctx)
		defer cancelCommit()
		if commitErr := tx.Commit(commitCtx); commitErr != nil {
			err = fmt.Errorf("failed to commit tx: %w", commitErr)
		}
	}()

	return fn(txCtx)
}
