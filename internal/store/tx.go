// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store handles all database access for the knowledge subsystem.
// Each aggregate has its own store; stores run against the shared *sql.DB
// unless the context carries a transaction, in which case every operation
// joins it. Logical operations that must be atomic (rating write + stats
// recompute) run inside TxManager.RunInTx.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, letting store methods run
// standalone or join an enclosing transaction transparently.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// InjectTx returns a context carrying the transaction.
func InjectTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// ExtractTx returns the transaction carried by the context, or nil.
func ExtractTx(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return nil
}

// querier resolves the DBTX to use: the context transaction if present,
// otherwise the plain connection pool.
func querier(ctx context.Context, db *sql.DB) DBTX {
	if tx := ExtractTx(ctx); tx != nil {
		return tx
	}
	return db
}

// TxManager runs a function within a single database transaction. The
// transaction is injected into the context so every store call inside fn
// joins it; any error or panic rolls the whole unit back.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a transaction manager on the given connection pool.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx executes fn inside a transaction, committing on success and
// rolling back on error or panic.
func (tm *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(InjectTx(ctx, tx))
	return err
}
