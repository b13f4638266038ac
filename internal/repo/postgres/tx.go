package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner executes a function inside a database transaction. Services take
// one instead of a pool so their transactional paths stay composable in tests.
type TxRunner func(context.Context, func(context.Context, pgx.Tx) error) error

// PoolTxRunner returns a TxRunner backed by the pool.
func PoolTxRunner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return WithTx(ctx, pool, fn)
	}
}

func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context, pgx.Tx) error) error {
	if pool == nil {
		return errors.New("postgres pool is nil")
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
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

// LockPair takes transaction-scoped advisory locks on both members of a swipe
// pair, smaller id first. Holding both sides serializes two users liking each
// other at the same moment, so the later transaction observes the earlier
// committed like when it checks for a mutual one. The fixed acquisition order
// keeps two such transactions from deadlocking each other. Because the lock
// also covers the actor, concurrent swipes by one user still serialize before
// counting daily usage.
func LockPair(ctx context.Context, tx pgx.Tx, userID, otherID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if userID <= 0 || otherID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	first, second := userID, otherID
	if second < first {
		first, second = second, first
	}

	for _, id := range []int64{first, second} {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, id); err != nil {
			return fmt.Errorf("lock swipe pair: %w", err)
		}
	}

	return nil
}
