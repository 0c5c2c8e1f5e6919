// Package dbx holds the small database/sql helpers shared by the identity
// repositories: the DBTX interface satisfied by both *sql.DB and *sql.Tx,
// and WithTx for running several repository calls atomically.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql the repositories use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction and runs fn with it. The transaction commits
// when fn returns nil and rolls back when fn fails or panics; panics are
// rethrown after the rollback.
//
// Creating an identity together with its first role:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    u, err := rm.Users(tx).Create(ctx, user)
//	    if err != nil {
//	        return err
//	    }
//	    return rm.Roles(tx).Grant(ctx, u.ID, common.RoleAdmin)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
