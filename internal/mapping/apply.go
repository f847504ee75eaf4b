package mapping

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/fintrack/internal/database/repository"
)

// DefaultDescription is used when the source has no description.
const DefaultDescription = "Imported Transaction"

// RawRow is one tokenized CSV record keyed by header.
type RawRow map[string]string

// Result is the outcome of applying a mapping to a batch of rows.
type Result struct {
	Transactions []repository.Transaction
	SkippedRows  []RawRow
}

// Apply maps rows to transactions. Rows whose date, amount or account cell is
// empty (or whose slot is unmapped) are returned in SkippedRows; both outputs
// keep input order.
func Apply(rows []RawRow, m repository.FieldMapping) Result {
	res := Result{Transactions: make([]repository.Transaction, 0, len(rows))}
	for _, row := range rows {
		tx, ok := applyRow(row, m)
		if !ok {
			res.SkippedRows = append(res.SkippedRows, row)
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res
}

func applyRow(row RawRow, m repository.FieldMapping) (repository.Transaction, bool) {
	dateRaw := cell(row, m.Mappings.Date)
	amountRaw := cell(row, m.Mappings.Amount)
	accountID := cell(row, m.Mappings.AccountID)
	// TODO: relax the account requirement once single-account exports are confirmed as a product need
	if dateRaw == "" || amountRaw == "" || accountID == "" {
		return repository.Transaction{}, false
	}

	description := orDefault(cell(row, m.Mappings.Description), DefaultDescription)
	typeRaw := cell(row, m.Mappings.Type)
	categoryID := orDefault(cell(row, m.Mappings.CategoryID), repository.UncategorizedID)
	status := normalizeStatus(cell(row, m.Mappings.Status))

	amount := ParseAmount(amountRaw)
	if m.Options.InvertAmount {
		amount = -amount
	}

	return repository.Transaction{
		ID:          uuid.NewString(),
		Date:        NormalizeDate(dateRaw),
		Description: description,
		CategoryID:  categoryID,
		Amount:      math.Abs(amount),
		Type:        ClassifyType(typeRaw, amount, m.Options),
		Status:      status,
		AccountID:   accountID,
	}, true
}

// cell returns the value under column, or "" when the slot is unmapped or the
// row lacks the column.
func cell(row RawRow, column string) string {
	if column == "" {
		return ""
	}
	return row[column]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func normalizeStatus(raw string) string {
	switch s := strings.ToLower(strings.TrimSpace(raw)); s {
	case repository.StatusCompleted, repository.StatusPending, repository.StatusUpcoming:
		return s
	default:
		return repository.StatusCompleted
	}
}
