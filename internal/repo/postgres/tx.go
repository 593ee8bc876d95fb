package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// likeTxOptions is used by LikeRepo.Record. Advisory locks serialize the
// quota and pair checks, so read committed is enough.
var likeTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// WithTx runs fn in a transaction begun with opts and commits when fn
// returns nil. Rollback runs even if ctx was canceled meanwhile.
func WithTx(ctx context.Context, pool *pgxpool.Pool, opts pgx.TxOptions, fn func(pgx.Tx) error) error {
	if pool == nil {
		return errors.New("postgres pool is nil")
	}

	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", isoName(opts.IsoLevel), err)
	}
	defer func() {
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s tx: %w", isoName(opts.IsoLevel), err)
	}
	return nil
}

func isoName(level pgx.TxIsoLevel) string {
	if level == "" {
		return "default"
	}
	return string(level)
}
