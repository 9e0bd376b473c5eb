package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/teamdesk/platform/internal/domain"
)

type memoryTable struct {
	header Row
	rows   []Row
}

type memoryStore struct {
	mu     sync.Mutex
	tables map[string]*memoryTable
}

// NewMemoryStore returns an in-process TableStore. Every call is serialised.
func NewMemoryStore() TableStore {
	return &memoryStore{tables: make(map[string]*memoryTable)}
}

func cloneRow(r Row) Row {
	return append(Row(nil), r...)
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = cloneRow(r)
	}
	return out
}

func (s *memoryStore) table(name string) (*memoryTable, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, domain.ErrNotFound("table", name)
	}
	return t, nil
}

func checkPosition(table string, position, count int) error {
	if position < 1 || position > count {
		return domain.ErrNotFound("row", fmt.Sprintf("%s:%d", table, position))
	}
	return nil
}

func (s *memoryStore) EnsureTable(_ context.Context, table string, header Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table]; !ok {
		s.tables[table] = &memoryTable{header: cloneRow(header)}
	}
	return nil
}

func (s *memoryStore) ReadAll(_ context.Context, table string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return nil, err
	}
	return cloneRows(t.rows), nil
}

func (s *memoryStore) AppendRows(_ context.Context, table string, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return err
	}
	t.rows = append(t.rows, cloneRows(rows)...)
	return nil
}

func (s *memoryStore) InsertRows(_ context.Context, table string, position int, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return err
	}
	// Inserting just past the last row is an append.
	if err := checkPosition(table, position, len(t.rows)+1); err != nil {
		return err
	}
	t.rows = slices.Insert(t.rows, position-1, cloneRows(rows)...)
	return nil
}

func (s *memoryStore) DeleteRows(_ context.Context, table string, positions ...int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return err
	}
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		if err := checkPosition(table, p, len(t.rows)); err != nil {
			return err
		}
		drop[p] = true
	}
	kept := t.rows[:0]
	for i, r := range t.rows {
		if !drop[i+1] {
			kept = append(kept, r)
		}
	}
	t.rows = kept
	return nil
}

func (s *memoryStore) UpdateRange(_ context.Context, table string, position, firstColumn int, values Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return err
	}
	if err := checkPosition(table, position, len(t.rows)); err != nil {
		return err
	}
	if firstColumn < 0 {
		return domain.ErrValidation(fmt.Sprintf("negative first column %d", firstColumn))
	}
	row := t.rows[position-1].Padded(firstColumn + len(values))
	copy(row[firstColumn:], values)
	t.rows[position-1] = row
	return nil
}

func (s *memoryStore) ClearAndRewrite(_ context.Context, table string, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return err
	}
	t.rows = cloneRows(rows)
	return nil
}
