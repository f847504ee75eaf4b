package repository

import (
	"context"
)

// AccountRepo handles accounts.
type AccountRepo struct {
	db DBTX
}

func NewAccountRepo(db DBTX) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Upsert(ctx context.Context, a Account) error {
	name := a.Name
	if name == "" {
		name = a.ID
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, name, created_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name;
	`, a.ID, name)
	return err
}

// Ensure creates a placeholder account named after its id unless one exists.
func (r *AccountRepo) Ensure(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO accounts(id, name, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`, id, id)
	return err
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
