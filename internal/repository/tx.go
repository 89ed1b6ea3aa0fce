package repository

import (
	"context"
	"database/sql"
)

type txKey struct{}

// runner is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repository methods query through it so the same code path serves both
// plain calls and calls made inside WithTx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx begins a transaction, stores it in the context and runs fn.
// When the context already carries a transaction, fn joins it instead
// of opening a nested one.  fn's error rolls the transaction back;
// otherwise it is committed.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// run resolves the runner for a context: the carried transaction when
// present, the pool otherwise.
func run(ctx context.Context, db *sql.DB) runner {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}
