package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/repositories"
)

// TxRunner runs a unit of work inside one database transaction.
// fn may be invoked more than once, so it must not keep state from a
// previous attempt.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
	// WithinReadTx runs fn in a read-only REPEATABLE READ transaction:
	// every query inside sees the same snapshot.
	WithinReadTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

// transientAttempts is the total number of tries for a unit of work that
// keeps failing with a transient store error.
const transientAttempts = 2

type sqlTxRunner struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTxRunner(db *sql.DB, logger *slog.Logger) TxRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &sqlTxRunner{db: db, logger: logger}
}

func (r *sqlTxRunner) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return retryTransient(ctx, r.logger, transientAttempts, func() error {
		return r.runOnce(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
	})
}

func (r *sqlTxRunner) WithinReadTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return retryTransient(ctx, r.logger, transientAttempts, func() error {
		return r.runOnce(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
	})
}

func (r *sqlTxRunner) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(exec repositories.SQLExecutor) error) (txErr error) {
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				r.logger.ErrorContext(ctx, "transaction rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

// retryTransient calls op up to attempts times while it fails with a
// transient store error. When the last attempt is still transient the
// error is wrapped with ErrTransientStore.
func retryTransient(ctx context.Context, logger *slog.Logger, attempts int, op func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op()
		if err == nil || !repositories.IsTransient(err) {
			return err
		}
		if ctx.Err() != nil {
			break
		}
		logger.WarnContext(ctx, "transient store error", slog.Int("attempt", attempt), slog.Any("error", err))
	}
	return fmt.Errorf("%w: %w", ErrTransientStore, err)
}
