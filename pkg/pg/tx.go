package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunInTx executes fn inside a transaction. The transaction is committed when
// fn returns nil and rolled back otherwise, including on panic and context
// cancellation, so neither locks nor partial writes survive a failed call.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		// Rollback is a no-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// RunInSavepoint executes fn inside a savepoint on an already open
// transaction. pgx models savepoints as nested transactions: a failure rolls
// back only the savepoint, leaving the outer transaction usable for
// compensating work.
func RunInSavepoint(ctx context.Context, tx pgx.Tx, fn func(ctx context.Context, tx pgx.Tx) error) error {
	nested, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}

	if err := fn(ctx, nested); err != nil {
		if rbErr := nested.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if err := nested.Commit(ctx); err != nil {
		return fmt.Errorf("commit savepoint: %w", err)
	}
	return nil
}
