// Package dbtx carries a *sql.Tx through context so that several repository
// calls can share one database transaction without changing their signatures.
package dbtx

import (
	"context"
	"database/sql"
)

type txContextKey string

var txKey = txContextKey("db_tx")

// Executor is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories issue their statements through it, so the same method works
// inside and outside a transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ContextWithTx returns a context carrying tx. A nil tx returns ctx unchanged.
func ContextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}

	return context.WithValue(ctx, txKey, tx)
}

// TxFromContext extracts the transaction from ctx, or nil when absent.
func TxFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey).(*sql.Tx)
	return tx
}

// GetExecutor returns the transaction carried by ctx when present, otherwise db.
//
//nolint:ireturn
func GetExecutor(ctx context.Context, db *sql.DB) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}

	return db
}

// RunInTransaction begins a transaction on db, runs fn with the transaction in
// context and commits, rolling back when fn returns an error. The error from
// fn wins over the rollback error.
func RunInTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ContextWithTx(ctx, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	committed = true

	return nil
}
