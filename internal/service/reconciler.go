package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/jask/fintrack/internal/database/repository"
)

// NearDuplicate is a pair of stored transactions that look like the same
// movement but were not caught by the exact match at import time. A is the
// older of the two; same-day pairs are ordered by id.
type NearDuplicate struct {
	A, B       repository.Transaction
	DaysApart  int
	Similarity float64
}

// Reconciler finds near duplicates for manual review.
type Reconciler struct {
	Transactions TransactionStore
	// MaxDaysApart bounds the date gap of a candidate pair.
	MaxDaysApart int
	// MaxDistanceRatio bounds the edit distance of the descriptions relative to the longer one.
	MaxDistanceRatio float64
}

// NearDuplicates returns candidate pairs among all stored transactions. Pairs
// need equal amounts, dates at most MaxDaysApart apart and similar
// descriptions; exact natural key matches are excluded.
func (r *Reconciler) NearDuplicates(ctx context.Context) ([]NearDuplicate, error) {
	txs, err := r.Transactions.List(ctx, repository.TransactionFilters{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	byAmount := map[float64][]repository.Transaction{}
	var amounts []float64
	for _, tx := range txs {
		if _, ok := byAmount[tx.Amount]; !ok {
			amounts = append(amounts, tx.Amount)
		}
		byAmount[tx.Amount] = append(byAmount[tx.Amount], tx)
	}

	var out []NearDuplicate
	for _, amount := range amounts {
		group := byAmount[amount]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Date != group[j].Date {
				return group[i].Date < group[j].Date
			}
			return group[i].ID < group[j].ID
		})
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if nd, ok := r.match(group[i], group[j]); ok {
					out = append(out, nd)
				}
			}
		}
	}
	return out, nil
}

func (r *Reconciler) match(a, b repository.Transaction) (NearDuplicate, bool) {
	if a.Key() == b.Key() {
		return NearDuplicate{}, false
	}
	da, errA := time.Parse(time.DateOnly, a.Date)
	db, errB := time.Parse(time.DateOnly, b.Date)
	if errA != nil || errB != nil {
		return NearDuplicate{}, false
	}
	days := daysApart(da, db)
	if days > r.MaxDaysApart {
		return NearDuplicate{}, false
	}
	ratio := distanceRatio(a.Description, b.Description)
	if ratio >= r.MaxDistanceRatio {
		return NearDuplicate{}, false
	}
	return NearDuplicate{A: a, B: b, DaysApart: days, Similarity: 1 - ratio}, true
}

// Merge keeps one transaction of a pair and deletes the other. The kept row
// inherits the dropped row's category when it has none of its own.
func (r *Reconciler) Merge(ctx context.Context, keepID, dropID string) error {
	if keepID == dropID {
		return errors.New("merge: ids are equal")
	}
	keep, err := r.Transactions.Get(ctx, keepID)
	if err != nil {
		return fmt.Errorf("merge: get %s: %w", keepID, err)
	}
	drop, err := r.Transactions.Get(ctx, dropID)
	if err != nil {
		return fmt.Errorf("merge: get %s: %w", dropID, err)
	}
	if keep == nil || drop == nil {
		return fmt.Errorf("merge: transaction not found")
	}
	if keep.CategoryID == repository.UncategorizedID && drop.CategoryID != repository.UncategorizedID {
		keep.CategoryID = drop.CategoryID
		if err := r.Transactions.Update(ctx, *keep); err != nil {
			return fmt.Errorf("merge: update %s: %w", keepID, err)
		}
	}
	if err := r.Transactions.Delete(ctx, dropID); err != nil {
		return fmt.Errorf("merge: delete %s: %w", dropID, err)
	}
	return nil
}

func distanceRatio(a, b string) float64 {
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
