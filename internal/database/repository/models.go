package repository

import "time"

// TransactionType is the stored type tag of a transaction. The sign of an
// imported amount is absorbed into the type; Amount itself is a magnitude.
type TransactionType string

const (
	TypeIncome                 TransactionType = "income"
	TypeExpense                TransactionType = "expense"
	TypeCapitalTransfer        TransactionType = "Capital Transfer"
	TypeCapitalInflow          TransactionType = "Capital Inflow"
	TypeTrueExpense            TransactionType = "True Expense"
	TypeReversedCapitalExpense TransactionType = "Reversed Capital Expense"
	TypeReversedTrueExpense    TransactionType = "Reversed True Expense"
)

// TransactionTypes lists every known type in declaration order.
var TransactionTypes = []TransactionType{
	TypeIncome,
	TypeExpense,
	TypeCapitalTransfer,
	TypeCapitalInflow,
	TypeTrueExpense,
	TypeReversedCapitalExpense,
	TypeReversedTrueExpense,
}

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusUpcoming  = "upcoming"
)

const (
	UncategorizedID   = "uncategorized"
	UncategorizedName = "Uncategorized"
	DefaultAccountID  = "default"
)

// Account represents an account row.
type Account struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Category represents a category row.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Transaction represents a transaction row.
type Transaction struct {
	ID          string
	Date        string // YYYY-MM-DD, or the source text when it could not be parsed
	Description string
	CategoryID  string
	Amount      float64
	Type        TransactionType
	Status      string
	AccountID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NaturalKey is the exact-match triple used to detect duplicates.
type NaturalKey struct {
	Date        string
	Amount      float64
	Description string
}

// Key returns the natural key of t.
func (t Transaction) Key() NaturalKey {
	return NaturalKey{Date: t.Date, Amount: t.Amount, Description: t.Description}
}

// ImportSession is the audit row written once per import.
type ImportSession struct {
	ID             string
	Date           string
	FileName       string
	TotalCount     int
	ImportedCount  int
	DuplicateCount int
	UpdatedCount   int
	SkippedCount   int
	CreatedAt      time.Time
}

// ColumnMappings names the source column for each transaction field. Empty means unmapped.
type ColumnMappings struct {
	Date        string `toml:"date,omitempty"`
	Description string `toml:"description,omitempty"`
	Amount      string `toml:"amount,omitempty"`
	Type        string `toml:"type,omitempty"`
	CategoryID  string `toml:"category_id,omitempty"`
	Status      string `toml:"status,omitempty"`
	AccountID   string `toml:"account_id,omitempty"`
}

// MappingOptions tune how mapped values are interpreted.
type MappingOptions struct {
	DateFormat              string `toml:"date_format"`
	NegativeAmountIsExpense bool   `toml:"negative_amount_is_expense"`
	InvertAmount            bool   `toml:"invert_amount"`
}

// FieldMapping is a saved or transient CSV column configuration.
type FieldMapping struct {
	ID               string         `toml:"-"`
	Name             string         `toml:"name"`
	SourceIdentifier string         `toml:"source,omitempty"`
	Mappings         ColumnMappings `toml:"mappings"`
	Options          MappingOptions `toml:"options"`
	CreatedAt        time.Time      `toml:"-"`
}
