package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/mapping"
)

func newDetectCmd(a *app) *cobra.Command {
	var save, source string
	cmd := &cobra.Command{
		Use:   "detect FILE",
		Short: "Guess a field mapping from a CSV header row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			headers, _, err := mapping.ReadCSV(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			m := a.mappings.Detect(headers)
			m.SourceIdentifier = source
			if save != "" {
				m.Name = save
				if m, err = a.mappings.Save(cmd.Context(), m); err != nil {
					return err
				}
			}
			printMappings(cmd.OutOrStdout(), []repository.FieldMapping{m})
			return nil
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "save the detected mapping under this name")
	cmd.Flags().StringVar(&source, "source", "", "bank/source label to store with the mapping")
	return cmd
}

func newMappingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Manage saved field mappings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved mappings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ms, err := a.mappings.List(cmd.Context())
				if err != nil {
					return err
				}
				printMappings(cmd.OutOrStdout(), ms)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete NAME|ID",
			Short: "Delete a saved mapping",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.mappings.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "export PATH",
			Short: "Write saved mappings to a TOML presets file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mappings.ExportPresets(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "load PATH",
			Short: "Save every mapping from a TOML presets file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := a.mappings.LoadPresets(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d mappings\n", n)
				return nil
			},
		},
	)
	return cmd
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printMappings(w io.Writer, ms []repository.FieldMapping) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "no mappings")
		return
	}
	t := newTable("Name", "Source", "Date", "Description", "Amount", "Type", "Category", "Status", "Account", "Options")
	for _, m := range ms {
		c := m.Mappings
		t.Row(m.Name, m.SourceIdentifier, c.Date, c.Description, c.Amount, c.Type, c.CategoryID, c.Status, c.AccountID, optionsLabel(m.Options))
	}
	fmt.Fprintln(w, t.Render())
}

func optionsLabel(o repository.MappingOptions) string {
	s := o.DateFormat
	if o.NegativeAmountIsExpense {
		s += " neg=expense"
	} else {
		s += " neg=income"
	}
	if o.InvertAmount {
		s += " inverted"
	}
	return s
}
