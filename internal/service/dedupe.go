package service

import (
	"context"
	"fmt"

	"github.com/jask/fintrack/internal/database/repository"
)

// DuplicateCheck reports whether a candidate matches a stored transaction.
type DuplicateCheck struct {
	IsDuplicate bool
	Existing    *repository.Transaction
}

// Deduper finds and merges exact duplicates. Two transactions are duplicates
// when date, amount and description are all equal.
type Deduper struct {
	Transactions TransactionStore
}

// IsDuplicate looks up the first stored transaction sharing c's natural key.
func (d *Deduper) IsDuplicate(ctx context.Context, c repository.Transaction) (DuplicateCheck, error) {
	existing, err := d.Transactions.FindByNaturalKey(ctx, c.Key())
	if err != nil {
		return DuplicateCheck{}, fmt.Errorf("find duplicate: %w", err)
	}
	return DuplicateCheck{IsDuplicate: existing != nil, Existing: existing}, nil
}

// UpdateDuplicate folds incoming into existing and stores the result under
// existing's id. Identity and natural key fields never change. When nothing
// differs no write happens and existing is returned as is.
func (d *Deduper) UpdateDuplicate(ctx context.Context, existing, incoming repository.Transaction) (repository.Transaction, error) {
	merged, changed := mergeDuplicate(existing, incoming)
	if !changed {
		return existing, nil
	}
	if err := d.Transactions.Update(ctx, merged); err != nil {
		return repository.Transaction{}, fmt.Errorf("update duplicate %s: %w", existing.ID, err)
	}
	return merged, nil
}

func mergeDuplicate(existing, incoming repository.Transaction) (repository.Transaction, bool) {
	merged := existing
	changed := false
	if incoming.CategoryID != existing.CategoryID {
		merged.CategoryID = incoming.CategoryID
		changed = true
	}
	if incoming.Type != existing.Type {
		merged.Type = incoming.Type
		changed = true
	}
	if incoming.Status != existing.Status {
		merged.Status = incoming.Status
		changed = true
	}
	if incoming.AccountID != existing.AccountID {
		merged.AccountID = incoming.AccountID
		changed = true
	}
	return merged, changed
}
