package repository

import (
	"context"
	"database/sql"
	"strings"
)

// TransactionFilters defines list filters.
type TransactionFilters struct {
	AccountID  string
	CategoryID string
	Type       TransactionType
	Month      string // YYYY-MM; empty = no month filter
	Search     string
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db DBTX
}

func NewTransactionRepo(db DBTX) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionColumns = `id, date, description, category_id, amount, type, status, account_id, created_at, updated_at`

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(
	 id, date, description, category_id, amount, type, status, account_id, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		t.ID, t.Date, t.Description, t.CategoryID, t.Amount, string(t.Type), t.Status, t.AccountID)
	return err
}

// Update overwrites every mutable column of the row with the same id.
func (r *TransactionRepo) Update(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE transactions SET
	 date = ?, description = ?, category_id = ?, amount = ?, type = ?, status = ?, account_id = ?,
	 updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`,
		t.Date, t.Description, t.CategoryID, t.Amount, string(t.Type), t.Status, t.AccountID, t.ID)
	return err
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	return err
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// FindByNaturalKey returns the earliest inserted row matching the exact
// (date, amount, description) triple, or nil.
func (r *TransactionRepo) FindByNaturalKey(ctx context.Context, k NaturalKey) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT `+transactionColumns+`
	FROM transactions
	WHERE date = ? AND amount = ? AND description = ?
	ORDER BY rowid ASC
	LIMIT 1`, k.Date, k.Amount, k.Description)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	var where []string
	var args []interface{}

	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Month != "" {
		where = append(where, "substr(date, 1, 7) = ?")
		args = append(args, f.Month)
	}
	if f.Search != "" {
		where = append(where, "description LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, rowid DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count returns the number of stored transactions.
func (r *TransactionRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n)
	return n, err
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var typ string
	if err := row.Scan(&t.ID, &t.Date, &t.Description, &t.CategoryID, &t.Amount, &typ,
		&t.Status, &t.AccountID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Transaction{}, err
	}
	t.Type = TransactionType(typ)
	return t, nil
}
