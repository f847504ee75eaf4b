package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/fintrack/internal/database/repository"
)

func stored(id, date string, amount float64, desc string) repository.Transaction {
	return repository.Transaction{
		ID:          id,
		Date:        date,
		Description: desc,
		Amount:      amount,
		CategoryID:  repository.UncategorizedID,
		Type:        repository.TypeExpense,
		Status:      repository.StatusCompleted,
		AccountID:   "checking",
	}
}

func TestIsDuplicateExactKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	txs := &memTransactions{rows: []repository.Transaction{
		stored("a", "2025-01-01", 10, "Coffee"),
		stored("b", "2025-01-01", 10, "Coffee"),
	}}
	d := &Deduper{Transactions: txs}

	check, err := d.IsDuplicate(ctx, stored("new", "2025-01-01", 10, "Coffee"))
	require.NoError(t, err)
	require.True(t, check.IsDuplicate)
	require.Equal(t, "a", check.Existing.ID)

	for _, c := range []repository.Transaction{
		stored("new", "2025-01-02", 10, "Coffee"),
		stored("new", "2025-01-01", 10.01, "Coffee"),
		stored("new", "2025-01-01", 10, "coffee"),
	} {
		check, err := d.IsDuplicate(ctx, c)
		require.NoError(t, err)
		require.False(t, check.IsDuplicate)
		require.Nil(t, check.Existing)
	}
}

func TestIsDuplicateStoreError(t *testing.T) {
	t.Parallel()
	d := &Deduper{Transactions: &memTransactions{failFind: true}}
	_, err := d.IsDuplicate(context.Background(), stored("x", "2025-01-01", 1, "x"))
	require.ErrorIs(t, err, errBoom)
}

func TestUpdateDuplicateMergesMutableFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	existing := stored("a", "2025-01-01", 10, "Coffee")
	txs := &memTransactions{rows: []repository.Transaction{existing}}
	d := &Deduper{Transactions: txs}

	incoming := stored("other-id", "2025-01-01", 10, "Coffee")
	incoming.CategoryID = "food"
	incoming.Type = repository.TypeTrueExpense
	incoming.Status = repository.StatusPending
	incoming.AccountID = "card"

	merged, err := d.UpdateDuplicate(ctx, existing, incoming)
	require.NoError(t, err)
	require.Equal(t, "a", merged.ID)
	require.Equal(t, existing.Date, merged.Date)
	require.Equal(t, existing.Amount, merged.Amount)
	require.Equal(t, existing.Description, merged.Description)
	require.Equal(t, "food", merged.CategoryID)
	require.Equal(t, repository.TypeTrueExpense, merged.Type)
	require.Equal(t, repository.StatusPending, merged.Status)
	require.Equal(t, "card", merged.AccountID)

	require.Equal(t, 1, txs.updates)
	require.Len(t, txs.rows, 1)
	require.Equal(t, merged, txs.rows[0])
}

func TestUpdateDuplicateNoopSkipsWrite(t *testing.T) {
	t.Parallel()
	existing := stored("a", "2025-01-01", 10, "Coffee")
	txs := &memTransactions{rows: []repository.Transaction{existing}}
	d := &Deduper{Transactions: txs}

	merged, err := d.UpdateDuplicate(context.Background(), existing, stored("b", "2025-01-01", 10, "Coffee"))
	require.NoError(t, err)
	require.Equal(t, existing, merged)
	require.Zero(t, txs.updates)
}
