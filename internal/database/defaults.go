package database

import (
	"context"
	"database/sql"

	"github.com/jask/fintrack/internal/database/repository"
)

// SeedDefaults ensures the sentinel category and account exist.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	catRepo := repository.NewCategoryRepo(db)
	existing, err := catRepo.Get(ctx, repository.UncategorizedID)
	if err != nil {
		return err
	}
	if existing == nil {
		cat := repository.Category{ID: repository.UncategorizedID, Name: repository.UncategorizedName}
		if err := catRepo.Upsert(ctx, cat); err != nil {
			return err
		}
	}
	return repository.NewAccountRepo(db).Ensure(ctx, repository.DefaultAccountID)
}
