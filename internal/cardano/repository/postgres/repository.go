// Package postgres is the transactional store for blocks and the records extracted from them.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=postgres

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

var (
	_ chain.Repository = (*Repository)(nil)
	_ chain.Tx         = (*Tx)(nil)
)

// Repository runs the reads and deletes the sink issues outside block transactions and
// opens those transactions.
type Repository struct {
	db      *sql.DB
	metrics Metrics
}

// NewRepository opens a pgx backed connection pool for dsn.
func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	return New(db, metrics), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB, metrics Metrics) *Repository {
	return &Repository{db: db, metrics: metrics}
}

// Ping checks the connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close releases the pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Begin opens the transaction a block is processed in.
func (r *Repository) Begin(ctx context.Context) (chain.Tx, error) {
	start := time.Now()
	var err error
	defer func() {
		r.observe("begin", err, start)
	}()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx, metrics: r.metrics}, nil
}

func (r *Repository) observe(operation string, err error, started time.Time) {
	if r.metrics != nil {
		r.metrics.Observe(operation, err, started)
	}
}

// Tx is a block transaction. Every task of a block writes through the same Tx.
type Tx struct {
	tx      *sql.Tx
	metrics Metrics
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.observe("commit", err, start)
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

func (t *Tx) observe(operation string, err error, started time.Time) {
	if t.metrics != nil {
		t.metrics.Observe(operation, err, started)
	}
}
