package service

import (
	"context"
	"database/sql"

	"github.com/jask/fintrack/internal/database"
	"github.com/jask/fintrack/internal/database/repository"
)

// SQLStores builds sqlite backed stores on db, which may be a *sql.DB or a *sql.Tx.
func SQLStores(db repository.DBTX) Stores {
	return Stores{
		Transactions: repository.NewTransactionRepo(db),
		Categories:   repository.NewCategoryRepo(db),
		Accounts:     repository.NewAccountRepo(db),
		Sessions:     repository.NewImportSessionRepo(db),
	}
}

// SQLUnitOfWork runs each unit in its own database transaction.
func SQLUnitOfWork(db *sql.DB) UnitOfWork {
	return func(ctx context.Context, fn func(Stores) error) error {
		return database.WithTx(ctx, db, func(tx *sql.Tx) error {
			return fn(SQLStores(tx))
		})
	}
}
