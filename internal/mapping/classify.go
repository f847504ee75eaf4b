package mapping

import (
	"strings"

	"github.com/jask/fintrack/internal/database/repository"
)

var exactTypes = map[string]repository.TransactionType{
	"capital transfer":         repository.TypeCapitalTransfer,
	"capital inflow":           repository.TypeCapitalInflow,
	"true expense":             repository.TypeTrueExpense,
	"reversed capital expense": repository.TypeReversedCapitalExpense,
	"reversed true expense":    repository.TypeReversedTrueExpense,
}

// checked in order; every word must appear somewhere in the value
var conjunctionTypes = []struct {
	words []string
	typ   repository.TransactionType
}{
	{[]string{"reversed", "capital", "expense"}, repository.TypeReversedCapitalExpense},
	{[]string{"reversed", "true", "expense"}, repository.TypeReversedTrueExpense},
	{[]string{"capital", "transfer"}, repository.TypeCapitalTransfer},
	{[]string{"capital", "inflow"}, repository.TypeCapitalInflow},
	{[]string{"true", "expense"}, repository.TypeTrueExpense},
}

// ClassifyType maps a raw type cell to a transaction type. An empty typeRaw
// means the column was absent, in which case the sign of amount decides
// together with opts.NegativeAmountIsExpense.
func ClassifyType(typeRaw string, amount float64, opts repository.MappingOptions) repository.TransactionType {
	if typeRaw == "" {
		negative := amount < 0
		if opts.NegativeAmountIsExpense {
			if negative {
				return repository.TypeExpense
			}
			return repository.TypeIncome
		}
		if negative {
			return repository.TypeIncome
		}
		return repository.TypeExpense
	}

	v := strings.ToLower(strings.TrimSpace(typeRaw))
	if t, ok := exactTypes[v]; ok {
		return t
	}
	for _, c := range conjunctionTypes {
		if containsAll(v, c.words) {
			return c.typ
		}
	}
	if strings.Contains(v, "income") || strings.Contains(v, "credit") || strings.Contains(v, "deposit") {
		return repository.TypeIncome
	}
	return repository.TypeExpense
}

func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

// Classification is the rollup bucket of a transaction type.
type Classification string

const (
	ClassIncome   Classification = "income"
	ClassExpense  Classification = "expense"
	ClassTransfer Classification = "transfer"
)

// ClassificationTable maps transaction types to buckets. It is built from
// configuration and matched case-insensitively.
type ClassificationTable map[string]Classification

// NewClassificationTable builds a table from config values, ignoring entries
// that do not name a known bucket.
func NewClassificationTable(cfg map[string]string) ClassificationTable {
	out := make(ClassificationTable, len(cfg))
	for k, v := range cfg {
		c := Classification(strings.ToLower(strings.TrimSpace(v)))
		switch c {
		case ClassIncome, ClassExpense, ClassTransfer:
			out[strings.ToLower(strings.TrimSpace(k))] = c
		}
	}
	return out
}

// Classify returns the bucket for t. Unknown types count as expenses.
func (ct ClassificationTable) Classify(t repository.TransactionType) Classification {
	if c, ok := ct[strings.ToLower(string(t))]; ok {
		return c
	}
	return ClassExpense
}
