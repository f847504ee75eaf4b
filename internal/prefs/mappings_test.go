package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/fintrack/internal/database/repository"
)

func TestSaveLoadMappings(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "mappings.toml")

	in := []repository.FieldMapping{
		{
			ID:               "ignored-id",
			Name:             "Chase checking",
			SourceIdentifier: "chase",
			Mappings: repository.ColumnMappings{
				Date:        "Posting Date",
				Description: "Description",
				Amount:      "Amount",
				AccountID:   "Account",
			},
			Options: repository.MappingOptions{DateFormat: "MM/DD/YYYY", NegativeAmountIsExpense: true},
		},
		{
			Name:     "Card",
			Mappings: repository.ColumnMappings{Date: "date", Amount: "debit", Type: "credit", AccountID: "card"},
			Options:  repository.MappingOptions{DateFormat: "DD/MM/YYYY", InvertAmount: true},
		},
	}
	require.NoError(t, SaveMappings(path, in))

	out, err := LoadMappings(path)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Empty(t, out[0].ID)
	require.Equal(t, "Chase checking", out[0].Name)
	require.Equal(t, "chase", out[0].SourceIdentifier)
	require.Equal(t, in[0].Mappings, out[0].Mappings)
	require.Equal(t, in[0].Options, out[0].Options)
	require.Equal(t, in[1].Mappings, out[1].Mappings)
	require.True(t, out[1].Options.InvertAmount)
}

func TestLoadMappingsMissingFile(t *testing.T) {
	t.Parallel()
	out, err := LoadMappings(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestLoadMappingsHandWritten(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mappings.toml")
	doc := `
[[mapping]]
name = "ANZ"
source = "anz"

[mapping.mappings]
date = "Date"
amount = "Amount"
description = "Details"
account_id = "Account"

[mapping.options]
date_format = "DD/MM/YYYY"
negative_amount_is_expense = true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	out, err := LoadMappings(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Details", out[0].Mappings.Description)
	require.Equal(t, "DD/MM/YYYY", out[0].Options.DateFormat)
	require.True(t, out[0].Options.NegativeAmountIsExpense)
}

func TestLoadMappingsRejectsNameless(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mappings.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[mapping]]\nsource = \"x\"\n"), 0o600))
	_, err := LoadMappings(path)
	require.Error(t, err)
}
