package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jask/fintrack/internal/database/repository"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := a.imports.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no imports yet")
				return nil
			}
			t := newTable("Date", "File", "Rows", "Imported", "Duplicates", "Updated", "Skipped")
			for _, s := range sessions {
				t.Row(s.Date, s.FileName,
					strconv.Itoa(s.TotalCount), strconv.Itoa(s.ImportedCount), strconv.Itoa(s.DuplicateCount),
					strconv.Itoa(s.UpdatedCount), strconv.Itoa(s.SkippedCount))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of sessions to show, 0 for all")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	var month, account string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total income, expenses and transfers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := a.rollup.Summarize(cmd.Context(), repository.TransactionFilters{Month: month, AccountID: account})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			money := func(d decimal.Decimal) string { return a.cfg.UI.CurrencySymbol + d.StringFixed(2) }

			fmt.Fprintf(out, "%d transactions  income %s  expense %s  transfer %s  net %s\n",
				sum.Count, money(sum.Totals.Income), money(sum.Totals.Expense), money(sum.Totals.Transfer), money(sum.Totals.Net()))

			if len(sum.ByMonth) > 1 {
				t := newTable("Month", "Income", "Expense", "Transfer", "Net")
				for _, m := range sum.ByMonth {
					t.Row(m.Month, money(m.Income), money(m.Expense), money(m.Transfer), money(m.Net()))
				}
				fmt.Fprintln(out, t.Render())
			}
			if len(sum.ByCategory) > 0 {
				t := newTable("Category", "Count", "Income", "Expense", "Transfer")
				for _, c := range sum.ByCategory {
					t.Row(c.CategoryID, strconv.Itoa(c.Count), money(c.Income), money(c.Expense), money(c.Transfer))
				}
				fmt.Fprintln(out, t.Render())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "limit to a month (YYYY-MM)")
	cmd.Flags().StringVar(&account, "account", "", "limit to an account id")
	return cmd
}
