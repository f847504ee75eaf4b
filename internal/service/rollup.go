package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/mapping"
)

// Totals are per-bucket sums.
type Totals struct {
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Transfer decimal.Decimal
}

// Net is income minus expense. Transfers move money without earning or spending it.
func (t Totals) Net() decimal.Decimal { return t.Income.Sub(t.Expense) }

func (t *Totals) add(c mapping.Classification, amount decimal.Decimal) {
	switch c {
	case mapping.ClassIncome:
		t.Income = t.Income.Add(amount)
	case mapping.ClassTransfer:
		t.Transfer = t.Transfer.Add(amount)
	default:
		t.Expense = t.Expense.Add(amount)
	}
}

type MonthTotals struct {
	Month string // YYYY-MM
	Totals
}

type CategoryTotals struct {
	CategoryID string
	Count      int
	Totals
}

// Summary aggregates transactions by classification.
type Summary struct {
	Count      int
	Totals     Totals
	ByMonth    []MonthTotals    // oldest month first
	ByCategory []CategoryTotals // ordered by category id
}

// RollupService sums stored transactions using a classification table.
type RollupService struct {
	Transactions TransactionStore
	Table        mapping.ClassificationTable
}

func (s *RollupService) Summarize(ctx context.Context, f repository.TransactionFilters) (Summary, error) {
	txs, err := s.Transactions.List(ctx, f)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}

	var sum Summary
	months := map[string]*MonthTotals{}
	cats := map[string]*CategoryTotals{}
	for _, tx := range txs {
		c := s.Table.Classify(tx.Type)
		amount := decimal.NewFromFloat(tx.Amount)

		sum.Count++
		sum.Totals.add(c, amount)

		if month, ok := monthOf(tx.Date); ok {
			mt := months[month]
			if mt == nil {
				mt = &MonthTotals{Month: month}
				months[month] = mt
			}
			mt.add(c, amount)
		}

		ct := cats[tx.CategoryID]
		if ct == nil {
			ct = &CategoryTotals{CategoryID: tx.CategoryID}
			cats[tx.CategoryID] = ct
		}
		ct.Count++
		ct.add(c, amount)
	}

	for _, mt := range months {
		sum.ByMonth = append(sum.ByMonth, *mt)
	}
	sort.Slice(sum.ByMonth, func(i, j int) bool { return sum.ByMonth[i].Month < sum.ByMonth[j].Month })
	for _, ct := range cats {
		sum.ByCategory = append(sum.ByCategory, *ct)
	}
	sort.Slice(sum.ByCategory, func(i, j int) bool { return sum.ByCategory[i].CategoryID < sum.ByCategory[j].CategoryID })
	return sum, nil
}

// monthOf returns the YYYY-MM prefix of an ISO date. Dates kept in their
// source form are not assigned to a month.
func monthOf(date string) (string, bool) {
	if len(date) < 7 || date[4] != '-' {
		return "", false
	}
	for i, r := range date[:7] {
		if i != 4 && (r < '0' || r > '9') {
			return "", false
		}
	}
	return date[:7], true
}
