package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jask/fintrack/internal/database/repository"
)

var errBoom = errors.New("boom")

type memTransactions struct {
	rows      []repository.Transaction
	updates   int
	failOn    string // Insert of this id fails
	failFind  bool
	deletedID []string
}

func (m *memTransactions) List(_ context.Context, f repository.TransactionFilters) ([]repository.Transaction, error) {
	var out []repository.Transaction
	for i := len(m.rows) - 1; i >= 0; i-- {
		t := m.rows[i]
		if f.AccountID != "" && t.AccountID != f.AccountID {
			continue
		}
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Month != "" && !strings.HasPrefix(t.Date, f.Month) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *memTransactions) Get(_ context.Context, id string) (*repository.Transaction, error) {
	for _, t := range m.rows {
		if t.ID == id {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memTransactions) Insert(_ context.Context, t repository.Transaction) error {
	if t.ID == m.failOn {
		return errBoom
	}
	m.rows = append(m.rows, t)
	return nil
}

func (m *memTransactions) Update(_ context.Context, t repository.Transaction) error {
	for i := range m.rows {
		if m.rows[i].ID == t.ID {
			m.rows[i] = t
			m.updates++
			return nil
		}
	}
	return nil
}

func (m *memTransactions) Delete(_ context.Context, id string) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			m.deletedID = append(m.deletedID, id)
			return nil
		}
	}
	return nil
}

func (m *memTransactions) FindByNaturalKey(_ context.Context, k repository.NaturalKey) (*repository.Transaction, error) {
	if m.failFind {
		return nil, errBoom
	}
	for _, t := range m.rows {
		if t.Key() == k {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

type memCategories struct {
	rows    map[string]repository.Category
	created []string
}

func (m *memCategories) Get(_ context.Context, id string) (*repository.Category, error) {
	if c, ok := m.rows[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *memCategories) Upsert(_ context.Context, c repository.Category) error {
	if m.rows == nil {
		m.rows = map[string]repository.Category{}
	}
	m.rows[c.ID] = c
	m.created = append(m.created, c.ID)
	return nil
}

type memAccounts struct {
	rows map[string]repository.Account
}

func (m *memAccounts) Ensure(_ context.Context, id string) error {
	if m.rows == nil {
		m.rows = map[string]repository.Account{}
	}
	if _, ok := m.rows[id]; !ok {
		m.rows[id] = repository.Account{ID: id, Name: id}
	}
	return nil
}

type memSessions struct {
	rows []repository.ImportSession
	fail bool
}

func (m *memSessions) Add(_ context.Context, s repository.ImportSession) error {
	if m.fail {
		return errBoom
	}
	m.rows = append(m.rows, s)
	return nil
}

func (m *memSessions) ListRecent(_ context.Context, limit int) ([]repository.ImportSession, error) {
	out := make([]repository.ImportSession, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0; i-- {
		out = append(out, m.rows[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memMappings struct {
	rows []repository.FieldMapping
}

func (m *memMappings) Save(_ context.Context, fm repository.FieldMapping) error {
	for i := range m.rows {
		if m.rows[i].ID == fm.ID {
			m.rows[i] = fm
			return nil
		}
	}
	m.rows = append(m.rows, fm)
	return nil
}

func (m *memMappings) Get(_ context.Context, id string) (*repository.FieldMapping, error) {
	for _, fm := range m.rows {
		if fm.ID == id {
			fm := fm
			return &fm, nil
		}
	}
	return nil, nil
}

func (m *memMappings) ByName(_ context.Context, name string) (*repository.FieldMapping, error) {
	for _, fm := range m.rows {
		if fm.Name == name {
			fm := fm
			return &fm, nil
		}
	}
	return nil, nil
}

func (m *memMappings) FindBySource(_ context.Context, source string) ([]repository.FieldMapping, error) {
	var out []repository.FieldMapping
	for _, fm := range m.rows {
		if fm.SourceIdentifier == source {
			out = append(out, fm)
		}
	}
	return out, nil
}

func (m *memMappings) List(context.Context) ([]repository.FieldMapping, error) {
	out := append([]repository.FieldMapping(nil), m.rows...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memMappings) Delete(_ context.Context, id string) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

type memStores struct {
	tx       *memTransactions
	cats     *memCategories
	accts    *memAccounts
	sessions *memSessions
}

func newMemStores() memStores {
	return memStores{
		tx:       &memTransactions{},
		cats:     &memCategories{rows: map[string]repository.Category{}},
		accts:    &memAccounts{},
		sessions: &memSessions{},
	}
}

func (m memStores) Stores() Stores {
	return Stores{Transactions: m.tx, Categories: m.cats, Accounts: m.accts, Sessions: m.sessions}
}
