package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

const defaultTxRetries = 3

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// TxManager carries the open pgx.Tx in the context so repositories called
// inside fn join it. Serialization failures and deadlocks are retried.
type TxManager struct {
	db         *pgxpool.Pool
	maxRetries int
	logger     *slog.Logger
}

func NewTxManager(db *pgxpool.Pool, logger *slog.Logger) *TxManager {
	return &TxManager{
		db:         db,
		maxRetries: defaultTxRetries,
		logger:     logger,
	}
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	for attempt := 0; ; attempt++ {
		err := runInTx(ctx, m.db, fn)
		if err == nil || !isRetryable(err) || attempt >= m.maxRetries {
			return err
		}

		wait := time.Duration(attempt+1) * 50 * time.Millisecond
		m.logger.Warn("retrying transaction", "attempt", attempt+1, "wait", wait, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(ctx context.Context) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	txCtx, hooks := domain.WithTxHooks(context.WithValue(ctx, txKey{}, tx))

	err = fn(txCtx)
	if err == nil {
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		hooks.Run(ctx)
		return nil
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

func conn(ctx context.Context, db *pgxpool.Pool) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgerrcode.UniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
}
