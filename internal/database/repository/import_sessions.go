package repository

import "context"

// ImportSessionRepo stores the audit trail of imports.
type ImportSessionRepo struct{ db DBTX }

func NewImportSessionRepo(db DBTX) *ImportSessionRepo { return &ImportSessionRepo{db: db} }

func (r *ImportSessionRepo) Add(ctx context.Context, s ImportSession) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO import_sessions(
	 id, date, file_name, total_count, imported_count, duplicate_count, updated_count, skipped_count, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, s.ID, s.Date, s.FileName, s.TotalCount, s.ImportedCount, s.DuplicateCount, s.UpdatedCount, s.SkippedCount)
	return err
}

// ListRecent returns sessions newest first. limit <= 0 returns all of them.
func (r *ImportSessionRepo) ListRecent(ctx context.Context, limit int) ([]ImportSession, error) {
	query := `SELECT id, date, file_name, total_count, imported_count, duplicate_count, updated_count, skipped_count, created_at
	FROM import_sessions ORDER BY date DESC, created_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ImportSession
	for rows.Next() {
		s, err := scanImportSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanImportSession(row scanner) (ImportSession, error) {
	var s ImportSession
	err := row.Scan(&s.ID, &s.Date, &s.FileName, &s.TotalCount, &s.ImportedCount,
		&s.DuplicateCount, &s.UpdatedCount, &s.SkippedCount, &s.CreatedAt)
	return s, err
}
