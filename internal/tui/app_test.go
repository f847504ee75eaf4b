package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/jask/fintrack/internal/config"
	"github.com/jask/fintrack/internal/database"
	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/mapping"
	"github.com/jask/fintrack/internal/service"
)

func newTestServices(t *testing.T) (Services, context.Context, *repository.TransactionRepo) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))

	stores := service.SQLStores(db)
	return Services{
		Import:     &service.ImportService{Stores: stores, Atomic: service.SQLUnitOfWork(db)},
		Reconciler: &service.Reconciler{Transactions: stores.Transactions, MaxDaysApart: 7, MaxDistanceRatio: 0.4},
	}, ctx, repository.NewTransactionRepo(db)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

const reviewCSV = `Date,Description,Amount,Account
2025-01-01,UBER EATS SUSHI,-12.50,checking
2025-01-02,Uber Eats* Sushi,-12.50,checking
2025-01-03,Rent,-1000,checking
`

func TestImportReviewExcludeAndCommit(t *testing.T) {
	t.Parallel()
	services, ctx, txRepo := newTestServices(t)
	fm := mapping.Detect([]string{"Date", "Description", "Amount", "Account"})
	batch, err := services.Import.Prepare(ctx, strings.NewReader(reviewCSV), "jan.csv", fm)
	require.NoError(t, err)

	app := NewImportReview(ctx, services, batch, "$")
	require.Nil(t, app.Init())
	require.Contains(t, app.View(), "Import jan.csv")

	app.Update(key("down"))
	app.Update(key("down"))
	app.Update(key(" "))
	require.Contains(t, app.View(), "Excluded: 1")

	_, cmd := app.Update(key("enter"))
	require.NotNil(t, cmd)
	done := cmd()
	require.IsType(t, importDoneMsg{}, done)

	_, cmd = app.Update(done)
	require.NotNil(t, app.Result())
	require.Len(t, app.Result().InsertedIDs, 2)
	require.Equal(t, 1, app.Result().SkippedCount)
	require.Equal(t, viewReconcile, app.state)

	n, err := txRepo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// the two sushi rows are near duplicates
	app.Update(cmd())
	require.Len(t, app.pairs, 1)
	require.Contains(t, app.View(), "Pair 1 of 1")

	_, cmd = app.Update(key("y"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Empty(t, app.pairs)
	require.Contains(t, app.View(), "No near duplicates")

	n, err = txRepo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestImportReviewCancel(t *testing.T) {
	t.Parallel()
	services, ctx, txRepo := newTestServices(t)
	fm := mapping.Detect([]string{"Date", "Description", "Amount", "Account"})
	batch, err := services.Import.Prepare(ctx, strings.NewReader(reviewCSV), "jan.csv", fm)
	require.NoError(t, err)

	app := NewImportReview(ctx, services, batch, "$")
	_, cmd := app.Update(key("q"))
	require.NotNil(t, cmd)
	require.True(t, app.Cancelled())
	require.Nil(t, app.Result())

	n, err := txRepo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReconcileReviewKeepB(t *testing.T) {
	t.Parallel()
	services, ctx, txRepo := newTestServices(t)
	a := repository.Transaction{ID: "a", Date: "2025-01-01", Description: "SPOTIFY", Amount: 11.99, CategoryID: "uncategorized", Type: repository.TypeExpense, Status: "completed", AccountID: "x"}
	b := a
	b.ID, b.Date, b.Description = "b", "2025-01-02", "SPOTIFY P"
	_, err := services.Import.ProcessTransactions(ctx, []repository.Transaction{a, b}, "f.csv", 2, 0)
	require.NoError(t, err)

	app := NewReconcileReview(ctx, services, "$")
	app.Update(app.Init()())
	require.Len(t, app.pairs, 1)

	_, cmd := app.Update(key("b"))
	app.Update(cmd())

	kept, err := txRepo.Get(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, kept)
	gone, err := txRepo.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestImportReviewCommitsOnce(t *testing.T) {
	t.Parallel()
	services, ctx, txRepo := newTestServices(t)
	fm := mapping.Detect([]string{"Date", "Description", "Amount", "Account"})
	batch, err := services.Import.Prepare(ctx, strings.NewReader(reviewCSV), "jan.csv", fm)
	require.NoError(t, err)

	app := NewImportReview(ctx, services, batch, "$")
	_, commit := app.Update(key("enter"))
	require.NotNil(t, commit)

	// keys are ignored until the first commit reports back
	_, cmd := app.Update(key("enter"))
	require.Nil(t, cmd)
	_, cmd = app.Update(key("q"))
	require.Nil(t, cmd)
	require.False(t, app.Cancelled())

	app.Update(commit())
	require.NotNil(t, app.Result())

	sessions, err := services.Import.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	n, err := txRepo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestImportReviewRetriesAfterError(t *testing.T) {
	t.Parallel()
	services, ctx, _ := newTestServices(t)
	app := NewImportReview(ctx, services, service.Batch{FileName: "f.csv"}, "$")

	_, cmd := app.Update(key("enter"))
	require.NotNil(t, cmd)
	app.Update(errMsg{errors.New("disk full")})
	require.Contains(t, app.View(), "error: disk full")

	_, cmd = app.Update(key("enter"))
	require.NotNil(t, cmd)
}

func TestImportReviewWindowsLongBatch(t *testing.T) {
	t.Parallel()
	services, ctx, _ := newTestServices(t)
	batch := service.Batch{FileName: "long.csv", TotalRows: 60}
	for i := 0; i < 60; i++ {
		batch.Transactions = append(batch.Transactions, repository.Transaction{
			ID: fmt.Sprintf("t%02d", i), Date: "2025-01-01", Description: fmt.Sprintf("row %02d", i),
			Amount: 1, Type: repository.TypeExpense, AccountID: "x",
		})
	}

	app := NewImportReview(ctx, services, batch, "$")
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 15})
	view := app.View()
	require.Contains(t, view, "rows 1-10 of 60")
	require.Contains(t, view, "row 09")
	require.NotContains(t, view, "row 10")

	for i := 0; i < 30; i++ {
		app.Update(key("down"))
	}
	view = app.View()
	require.Contains(t, view, "rows 26-35 of 60")
	require.Contains(t, view, "row 30")
	require.NotContains(t, view, "row 00")
}

func TestWindow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cursor, n, size int
		start, end      int
	}{
		{0, 5, 10, 0, 5},
		{0, 60, 10, 0, 10},
		{30, 60, 10, 25, 35},
		{59, 60, 10, 50, 60},
		{3, 60, 0, 3, 4},
	}
	for _, tt := range tests {
		start, end := window(tt.cursor, tt.n, tt.size)
		require.Equal(t, tt.start, start, "%+v", tt)
		require.Equal(t, tt.end, end, "%+v", tt)
	}
}

func TestAmountStyleFollowsClassification(t *testing.T) {
	t.Parallel()
	expense := repository.Transaction{Type: repository.TypeExpense}
	transfer := repository.Transaction{Type: repository.TypeCapitalTransfer}

	def := NewReconcileReview(context.Background(), Services{}, "$")
	require.Equal(t, colorExpense, def.amountStyle(expense).GetForeground())
	require.Equal(t, lipgloss.NoColor{}, def.amountStyle(transfer).GetForeground())

	table := config.DefaultClassification()
	table["expense"] = "income"
	custom := NewReconcileReview(context.Background(), Services{Classification: mapping.NewClassificationTable(table)}, "$")
	require.Equal(t, colorIncome, custom.amountStyle(expense).GetForeground())
}
