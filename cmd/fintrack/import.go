package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/fintrack/internal/mapping"
	"github.com/jask/fintrack/internal/service"
	"github.com/jask/fintrack/internal/tui"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		mappingRef string
		source     string
		review     bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			headers, _, err := mapping.ReadCSV(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			m, err := a.mappings.Resolve(ctx, mappingRef, source, headers)
			if err != nil {
				return err
			}
			a.log.Debug().Str("mapping", m.Name).Str("file", path).Msg("mapping resolved")

			batch, err := a.imports.Prepare(ctx, bytes.NewReader(data), filepath.Base(path), m)
			if err != nil {
				return err
			}

			if !review {
				res, err := a.imports.Commit(ctx, batch)
				if err != nil {
					return err
				}
				printImportResult(cmd.OutOrStdout(), res)
				return nil
			}

			model := tui.NewImportReview(ctx, a.reviewServices(), batch, a.cfg.UI.CurrencySymbol)
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return err
			}
			if model.Cancelled() {
				fmt.Fprintln(cmd.OutOrStdout(), "import cancelled")
				return nil
			}
			if res := model.Result(); res != nil {
				printImportResult(cmd.OutOrStdout(), *res)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mappingRef, "mapping", "", "saved mapping name or id")
	cmd.Flags().StringVar(&source, "source", "", "bank/source label used to pick a saved mapping")
	cmd.Flags().BoolVar(&review, "review", false, "review rows before importing")
	return cmd
}

func printImportResult(w io.Writer, res service.ImportResult) {
	fmt.Fprintf(w, "imported %d, duplicates %d (updated %d), skipped %d\n",
		len(res.InsertedIDs), res.DuplicateCount, res.UpdatedCount, res.SkippedCount)
}
