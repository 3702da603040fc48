package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgreDB struct {
	Pool     *pgxpool.Pool
	DBConfig *pgxpool.Config
}

// Config describes how to reach the database and how to size the pool.
type Config interface {
	GetDSN() string
	PoolSettings() PoolSettings
}

type PoolSettings struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// New creates the process wide connection pool and pings the database.
// Callers own the pool and must Close it on shutdown.
func New(ctx context.Context, config Config) (*PostgreDB, error) {
	dbConfig, err := pgxpool.ParseConfig(config.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	ps := config.PoolSettings()
	if ps.MaxConns > 0 {
		dbConfig.MaxConns = ps.MaxConns
	}
	if ps.MinConns > 0 {
		dbConfig.MinConns = ps.MinConns
	}
	if ps.MaxConnLifetime > 0 {
		dbConfig.MaxConnLifetime = ps.MaxConnLifetime
	}
	if ps.MaxConnIdleTime > 0 {
		dbConfig.MaxConnIdleTime = ps.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgreDB{
		Pool:     pool,
		DBConfig: dbConfig,
	}, nil
}

// Close drains the pool.
func (db *PostgreDB) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
	}
}
