package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/fintrack/internal/config"
	"github.com/jask/fintrack/internal/database"
	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/logger"
	"github.com/jask/fintrack/internal/mapping"
	"github.com/jask/fintrack/internal/service"
	"github.com/jask/fintrack/internal/tui"
)

func main() {
	root, a := newRootCmd()
	err := root.ExecuteContext(context.Background())
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, service.ErrNoMapping) {
			fmt.Fprintln(os.Stderr, "hint: pass --mapping, or save one with `fintrack detect FILE --save NAME`")
		}
		os.Exit(1)
	}
}

// app holds everything a command needs once startup has finished.
type app struct {
	cfg         config.Config
	db          *sql.DB
	log         zerolog.Logger
	imports     *service.ImportService
	mappings    *service.MappingService
	rollup      *service.RollupService
	reconciler  *service.Reconciler
	maintenance *service.MaintenanceService
}

func newRootCmd() (*cobra.Command, *app) {
	var (
		a        = &app{}
		logLevel string
	)
	root := &cobra.Command{
		Use:           "fintrack",
		Short:         "Import bank CSV exports into a local ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := a.start(cmd.Context(), logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level from config")

	root.AddCommand(
		newImportCmd(a),
		newDetectCmd(a),
		newMappingsCmd(a),
		newHistoryCmd(a),
		newSummaryCmd(a),
		newReviewCmd(a),
		newResetCmd(a),
		newDemoCmd(),
	)
	return root, a
}

func (a *app) reviewServices() tui.Services {
	return tui.Services{Import: a.imports, Reconciler: a.reconciler, Classification: a.rollup.Table}
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// start loads config, prepares the database and builds the services.
func (a *app) start(ctx context.Context, logLevel string) (context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, fmt.Errorf("config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	ctx = logger.WithContext(ctx, a.log)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return ctx, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return ctx, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return ctx, fmt.Errorf("open db: %w", err)
	}
	a.db = db
	if err := database.SeedDefaults(ctx, db); err != nil {
		return ctx, fmt.Errorf("seed defaults: %w", err)
	}

	stores := service.SQLStores(db)
	opts := repository.MappingOptions{
		DateFormat:              cfg.Import.DateFormat,
		NegativeAmountIsExpense: cfg.Import.NegativeAmountIsExpense,
		InvertAmount:            cfg.Import.InvertAmount,
	}
	a.imports = &service.ImportService{Stores: stores, Atomic: service.SQLUnitOfWork(db)}
	a.mappings = &service.MappingService{Store: repository.NewFieldMappingRepo(db), Options: &opts}
	a.rollup = &service.RollupService{
		Transactions: stores.Transactions,
		Table:        mapping.NewClassificationTable(cfg.Classification),
	}
	a.reconciler = &service.Reconciler{
		Transactions:     stores.Transactions,
		MaxDaysApart:     cfg.Review.MaxDaysApart,
		MaxDistanceRatio: cfg.Review.MaxDistanceRatio,
	}
	a.maintenance = &service.MaintenanceService{DB: db}

	// presets file is optional
	if _, err := a.mappings.LoadPresets(ctx, cfg.Import.PresetsPath); err != nil {
		a.log.Warn().Err(err).Str("path", cfg.Import.PresetsPath).Msg("mapping presets not loaded")
	}
	return ctx, nil
}
