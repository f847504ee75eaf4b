package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jask/fintrack/internal/database"
	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/logger"
	"github.com/jask/fintrack/internal/mapping"
)

// ImportResult summarizes one import.
type ImportResult struct {
	InsertedIDs    []string
	DuplicateCount int
	UpdatedCount   int
	SkippedCount   int
}

// Batch is a mapped file waiting to be committed.
type Batch struct {
	FileName     string
	Mapping      repository.FieldMapping
	Headers      []string
	Transactions []repository.Transaction
	SkippedRows  []mapping.RawRow
	TotalRows    int
}

// ImportService turns mapped CSV rows into stored transactions.
type ImportService struct {
	Stores Stores
	// Atomic wraps each batch; nil writes straight to Stores.
	Atomic UnitOfWork
	// Clock defaults to database.Now.
	Clock func() time.Time
}

// Prepare reads a CSV file and maps its rows without writing anything.
func (s *ImportService) Prepare(ctx context.Context, r io.Reader, fileName string, m repository.FieldMapping) (Batch, error) {
	log := logger.FromContext(ctx)
	headers, rows, err := mapping.ReadCSV(r)
	if err != nil {
		return Batch{}, fmt.Errorf("read %s: %w", fileName, err)
	}
	if m.Mappings.Amount != "" {
		for i, row := range rows {
			if v := row[m.Mappings.Amount]; v != "" {
				if _, ok := mapping.ParseAmountOK(v); !ok {
					log.Warn().Str("file", fileName).Int("row", i+1).Str("amount", v).Msg("amount is not numeric, storing 0")
				}
			}
		}
	}
	res := mapping.Apply(rows, m)
	for _, row := range res.SkippedRows {
		log.Debug().Str("file", fileName).Interface("row", row).Msg("row skipped")
	}
	return Batch{
		FileName:     fileName,
		Mapping:      m,
		Headers:      headers,
		Transactions: res.Transactions,
		SkippedRows:  res.SkippedRows,
		TotalRows:    len(rows),
	}, nil
}

// Commit stores a prepared batch.
func (s *ImportService) Commit(ctx context.Context, b Batch) (ImportResult, error) {
	return s.ProcessTransactions(ctx, b.Transactions, b.FileName, b.TotalRows, len(b.SkippedRows))
}

// ImportFile prepares and commits a CSV file in one step.
func (s *ImportService) ImportFile(ctx context.Context, r io.Reader, fileName string, m repository.FieldMapping) (ImportResult, error) {
	b, err := s.Prepare(ctx, r, fileName, m)
	if err != nil {
		return ImportResult{}, err
	}
	return s.Commit(ctx, b)
}

// ProcessTransactions stores txs, merging exact duplicates into the rows
// already stored, and records an import session. A store error aborts the
// batch; with an Atomic unit of work nothing from the batch is kept.
func (s *ImportService) ProcessTransactions(ctx context.Context, txs []repository.Transaction, fileName string, totalRowCount, skippedCount int) (ImportResult, error) {
	log := logger.FromContext(ctx)
	today := s.now().UTC().Format(time.DateOnly)

	var res ImportResult
	run := func(st Stores) error {
		r, err := processBatch(ctx, st, txs, fileName, totalRowCount, skippedCount, today)
		res = r
		return err
	}
	var err error
	if s.Atomic != nil {
		err = s.Atomic(ctx, run)
	} else {
		err = run(s.Stores)
	}
	if err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("import failed")
		return ImportResult{}, fmt.Errorf("import %s: %w", fileName, err)
	}

	log.Info().
		Str("file", fileName).
		Int("total", totalRowCount).
		Int("imported", len(res.InsertedIDs)).
		Int("duplicates", res.DuplicateCount).
		Int("updated", res.UpdatedCount).
		Int("skipped", res.SkippedCount).
		Msg("import complete")
	return res, nil
}

func processBatch(ctx context.Context, st Stores, txs []repository.Transaction, fileName string, total, skipped int, today string) (ImportResult, error) {
	log := logger.FromContext(ctx)
	if err := ensureCategories(ctx, st.Categories, txs); err != nil {
		return ImportResult{}, err
	}
	if err := ensureAccounts(ctx, st.Accounts, txs); err != nil {
		return ImportResult{}, err
	}

	dd := &Deduper{Transactions: st.Transactions}
	res := ImportResult{InsertedIDs: []string{}, SkippedCount: skipped}
	for _, tx := range txs {
		check, err := dd.IsDuplicate(ctx, tx)
		if err != nil {
			return ImportResult{}, err
		}
		if check.IsDuplicate {
			res.DuplicateCount++
			merged, err := dd.UpdateDuplicate(ctx, *check.Existing, tx)
			if err != nil {
				return ImportResult{}, err
			}
			// counted even when the merge changed nothing
			res.UpdatedCount++
			log.Debug().
				Str("id", merged.ID).
				Str("date", merged.Date).
				Str("description", merged.Description).
				Bool("changed", merged != *check.Existing).
				Msg("duplicate merged")
			continue
		}
		if err := st.Transactions.Insert(ctx, tx); err != nil {
			return ImportResult{}, fmt.Errorf("insert transaction %s: %w", tx.ID, err)
		}
		res.InsertedIDs = append(res.InsertedIDs, tx.ID)
	}

	session := repository.ImportSession{
		ID:             uuid.NewString(),
		Date:           today,
		FileName:       fileName,
		TotalCount:     total,
		ImportedCount:  len(res.InsertedIDs),
		DuplicateCount: res.DuplicateCount,
		UpdatedCount:   res.UpdatedCount,
		SkippedCount:   skipped,
	}
	if err := st.Sessions.Add(ctx, session); err != nil {
		return ImportResult{}, fmt.Errorf("record import session: %w", err)
	}
	return res, nil
}

// ensureCategories creates every referenced category that does not exist yet,
// named after its id, plus the uncategorized sentinel.
func ensureCategories(ctx context.Context, cats CategoryStore, txs []repository.Transaction) error {
	seen := map[string]bool{repository.UncategorizedID: true}
	ids := []string{}
	for _, tx := range txs {
		if tx.CategoryID == "" || seen[tx.CategoryID] {
			continue
		}
		seen[tx.CategoryID] = true
		ids = append(ids, tx.CategoryID)
	}
	for _, id := range ids {
		if err := ensureCategory(ctx, cats, repository.Category{ID: id, Name: id}); err != nil {
			return err
		}
	}
	return ensureCategory(ctx, cats, repository.Category{ID: repository.UncategorizedID, Name: repository.UncategorizedName})
}

func ensureCategory(ctx context.Context, cats CategoryStore, c repository.Category) error {
	existing, err := cats.Get(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("get category %s: %w", c.ID, err)
	}
	if existing != nil {
		return nil
	}
	if err := cats.Upsert(ctx, c); err != nil {
		return fmt.Errorf("create category %s: %w", c.ID, err)
	}
	return nil
}

func ensureAccounts(ctx context.Context, accts AccountStore, txs []repository.Transaction) error {
	seen := map[string]bool{}
	for _, tx := range txs {
		if tx.AccountID == "" || seen[tx.AccountID] {
			continue
		}
		seen[tx.AccountID] = true
		if err := accts.Ensure(ctx, tx.AccountID); err != nil {
			return fmt.Errorf("ensure account %s: %w", tx.AccountID, err)
		}
	}
	return nil
}

// History returns the most recent import sessions, newest first.
func (s *ImportService) History(ctx context.Context, limit int) ([]repository.ImportSession, error) {
	sessions, err := s.Stores.Sessions.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list import sessions: %w", err)
	}
	return sessions, nil
}

func (s *ImportService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return database.Now()
}
