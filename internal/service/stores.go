package service

import (
	"context"

	"github.com/jask/fintrack/internal/database/repository"
)

// TransactionStore is the transaction storage the services need.
type TransactionStore interface {
	List(ctx context.Context, f repository.TransactionFilters) ([]repository.Transaction, error)
	Get(ctx context.Context, id string) (*repository.Transaction, error)
	Insert(ctx context.Context, t repository.Transaction) error
	Update(ctx context.Context, t repository.Transaction) error
	Delete(ctx context.Context, id string) error
	FindByNaturalKey(ctx context.Context, k repository.NaturalKey) (*repository.Transaction, error)
}

type CategoryStore interface {
	Get(ctx context.Context, id string) (*repository.Category, error)
	Upsert(ctx context.Context, c repository.Category) error
}

type AccountStore interface {
	Ensure(ctx context.Context, id string) error
}

type ImportSessionStore interface {
	Add(ctx context.Context, s repository.ImportSession) error
	ListRecent(ctx context.Context, limit int) ([]repository.ImportSession, error)
}

type FieldMappingStore interface {
	Save(ctx context.Context, m repository.FieldMapping) error
	Get(ctx context.Context, id string) (*repository.FieldMapping, error)
	ByName(ctx context.Context, name string) (*repository.FieldMapping, error)
	FindBySource(ctx context.Context, source string) ([]repository.FieldMapping, error)
	List(ctx context.Context) ([]repository.FieldMapping, error)
	Delete(ctx context.Context, id string) error
}

// Stores bundles the stores an import writes to.
type Stores struct {
	Transactions TransactionStore
	Categories   CategoryStore
	Accounts     AccountStore
	Sessions     ImportSessionStore
}

// UnitOfWork runs fn against stores whose writes commit or fail together.
type UnitOfWork func(ctx context.Context, fn func(Stores) error) error
