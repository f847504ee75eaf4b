package repository

import (
	"context"
	"database/sql"
)

// FieldMappingRepo stores saved CSV column mappings.
type FieldMappingRepo struct{ db DBTX }

func NewFieldMappingRepo(db DBTX) *FieldMappingRepo { return &FieldMappingRepo{db: db} }

const fieldMappingColumns = `id, name, source_identifier, date_column, description_column, amount_column,
 type_column, category_column, status_column, account_column, date_format,
 negative_amount_is_expense, invert_amount, created_at`

// Save inserts the mapping or replaces the row with the same id.
func (r *FieldMappingRepo) Save(ctx context.Context, m FieldMapping) error {
	c := m.Mappings
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO field_mappings(
	 id, name, source_identifier, date_column, description_column, amount_column,
	 type_column, category_column, status_column, account_column, date_format,
	 negative_amount_is_expense, invert_amount, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 source_identifier=excluded.source_identifier,
	 date_column=excluded.date_column,
	 description_column=excluded.description_column,
	 amount_column=excluded.amount_column,
	 type_column=excluded.type_column,
	 category_column=excluded.category_column,
	 status_column=excluded.status_column,
	 account_column=excluded.account_column,
	 date_format=excluded.date_format,
	 negative_amount_is_expense=excluded.negative_amount_is_expense,
	 invert_amount=excluded.invert_amount;
	`,
		m.ID, m.Name, m.SourceIdentifier,
		nullable(c.Date), nullable(c.Description), nullable(c.Amount), nullable(c.Type),
		nullable(c.CategoryID), nullable(c.Status), nullable(c.AccountID),
		m.Options.DateFormat, m.Options.NegativeAmountIsExpense, m.Options.InvertAmount)
	return err
}

func (r *FieldMappingRepo) Get(ctx context.Context, id string) (*FieldMapping, error) {
	return r.one(ctx, `SELECT `+fieldMappingColumns+` FROM field_mappings WHERE id = ?`, id)
}

// ByName looks a mapping up by its unique name.
func (r *FieldMappingRepo) ByName(ctx context.Context, name string) (*FieldMapping, error) {
	return r.one(ctx, `SELECT `+fieldMappingColumns+` FROM field_mappings WHERE name = ?`, name)
}

// FindBySource returns mappings saved for a bank/source label, oldest first.
func (r *FieldMappingRepo) FindBySource(ctx context.Context, source string) ([]FieldMapping, error) {
	return r.many(ctx, `SELECT `+fieldMappingColumns+` FROM field_mappings WHERE source_identifier = ? ORDER BY created_at, rowid`, source)
}

func (r *FieldMappingRepo) List(ctx context.Context) ([]FieldMapping, error) {
	return r.many(ctx, `SELECT `+fieldMappingColumns+` FROM field_mappings ORDER BY name`)
}

func (r *FieldMappingRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM field_mappings WHERE id = ?`, id)
	return err
}

func (r *FieldMappingRepo) one(ctx context.Context, query string, args ...interface{}) (*FieldMapping, error) {
	m, err := scanFieldMapping(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *FieldMappingRepo) many(ctx context.Context, query string, args ...interface{}) ([]FieldMapping, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FieldMapping
	for rows.Next() {
		m, err := scanFieldMapping(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanFieldMapping(row scanner) (FieldMapping, error) {
	var m FieldMapping
	var date, desc, amount, typ, category, status, account sql.NullString
	if err := row.Scan(&m.ID, &m.Name, &m.SourceIdentifier, &date, &desc, &amount, &typ,
		&category, &status, &account, &m.Options.DateFormat,
		&m.Options.NegativeAmountIsExpense, &m.Options.InvertAmount, &m.CreatedAt); err != nil {
		return FieldMapping{}, err
	}
	m.Mappings = ColumnMappings{
		Date:        date.String,
		Description: desc.String,
		Amount:      amount.String,
		Type:        typ.String,
		CategoryID:  category.String,
		Status:      status.String,
		AccountID:   account.String,
	}
	return m, nil
}
