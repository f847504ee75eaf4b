package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/fintrack/internal/testdata"
)

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all transactions and import history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes all imported data; pass --yes to confirm")
			}
			if err := a.maintenance.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var (
		rows int
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "demo FILE",
		Short: "Write a sample bank CSV to try imports with",
		Args:  cobra.ExactArgs(1),
		// no database needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := testdata.WriteBankCSV(f, rows, seed, time.Now()); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", rows, args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 60, "number of transactions")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}
