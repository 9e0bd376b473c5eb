package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/teamdesk/platform/internal/domain"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// sqliteStore keeps every table in one sheet_rows table with JSON-encoded
// cells. Shifting positions happens in Go inside a transaction because
// SQLite checks the primary key per row.
type sqliteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore applies the embedded schema to db and returns a TableStore.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (TableStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite db is required")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func encodeCells(r Row) (string, error) {
	if r == nil {
		r = Row{}
	}
	b, err := json.Marshal([]string(r))
	if err != nil {
		return "", fmt.Errorf("encode cells: %w", err)
	}
	return string(b), nil
}

func decodeCells(s string) (Row, error) {
	var cells []string
	if err := json.Unmarshal([]byte(s), &cells); err != nil {
		return nil, fmt.Errorf("decode cells: %w", err)
	}
	return Row(cells), nil
}

func (s *sqliteStore) withTx(ctx context.Context, op, table string, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(op, table, fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return storeErr(op, table, err)
	}
	if err := tx.Commit(); err != nil {
		return storeErr(op, table, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// loadRows returns the data rows of table or ErrNotFound when it has no header.
func loadRows(ctx context.Context, tx *sql.Tx, table string) ([]Row, error) {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheet_rows WHERE sheet = ? AND position = 0`, table).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check header: %w", err)
	}
	if exists == 0 {
		return nil, domain.ErrNotFound("table", table)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT cells FROM sheet_rows
		WHERE sheet = ? AND position > 0
		ORDER BY position ASC`, table)
	if err != nil {
		return nil, fmt.Errorf("select rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r, err := decodeCells(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, from int, rows []Row) error {
	for i, r := range rows {
		cells, err := encodeCells(r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sheet_rows (sheet, position, cells) VALUES (?, ?, ?)`,
			table, from+i, cells); err != nil {
			return fmt.Errorf("insert row %d: %w", from+i, err)
		}
	}
	return nil
}

func rewriteRows(ctx context.Context, tx *sql.Tx, table string, rows []Row) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = ? AND position > 0`, table); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	return insertRows(ctx, tx, table, 1, rows)
}

func (s *sqliteStore) EnsureTable(ctx context.Context, table string, header Row) error {
	return s.withTx(ctx, "ensure", table, func(tx *sql.Tx) error {
		cells, err := encodeCells(header)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sheet_rows (sheet, position, cells) VALUES (?, 0, ?)
			ON CONFLICT (sheet, position) DO NOTHING`, table, cells)
		return err
	})
}

func (s *sqliteStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	var out []Row
	err := s.withTx(ctx, "read", table, func(tx *sql.Tx) error {
		rows, err := loadRows(ctx, tx, table)
		out = rows
		return err
	})
	return out, err
}

func (s *sqliteStore) AppendRows(ctx context.Context, table string, rows []Row) error {
	return s.withTx(ctx, "append", table, func(tx *sql.Tx) error {
		existing, err := loadRows(ctx, tx, table)
		if err != nil {
			return err
		}
		return insertRows(ctx, tx, table, len(existing)+1, rows)
	})
}

func (s *sqliteStore) InsertRows(ctx context.Context, table string, position int, rows []Row) error {
	return s.withTx(ctx, "insert", table, func(tx *sql.Tx) error {
		existing, err := loadRows(ctx, tx, table)
		if err != nil {
			return err
		}
		if err := checkPosition(table, position, len(existing)+1); err != nil {
			return err
		}
		merged := make([]Row, 0, len(existing)+len(rows))
		merged = append(merged, existing[:position-1]...)
		merged = append(merged, rows...)
		merged = append(merged, existing[position-1:]...)
		return rewriteRows(ctx, tx, table, merged)
	})
}

func (s *sqliteStore) DeleteRows(ctx context.Context, table string, positions ...int) error {
	if len(positions) == 0 {
		return nil
	}
	return s.withTx(ctx, "delete", table, func(tx *sql.Tx) error {
		existing, err := loadRows(ctx, tx, table)
		if err != nil {
			return err
		}
		drop := make(map[int]bool, len(positions))
		for _, p := range positions {
			if err := checkPosition(table, p, len(existing)); err != nil {
				return err
			}
			drop[p] = true
		}
		kept := make([]Row, 0, len(existing))
		for i, r := range existing {
			if !drop[i+1] {
				kept = append(kept, r)
			}
		}
		return rewriteRows(ctx, tx, table, kept)
	})
}

func (s *sqliteStore) UpdateRange(ctx context.Context, table string, position, firstColumn int, values Row) error {
	if firstColumn < 0 {
		return domain.ErrValidation(fmt.Sprintf("negative first column %d", firstColumn))
	}
	return s.withTx(ctx, "update", table, func(tx *sql.Tx) error {
		var raw string
		err := tx.QueryRowContext(ctx, `
			SELECT cells FROM sheet_rows WHERE sheet = ? AND position = ? AND position > 0`,
			table, position).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound("row", fmt.Sprintf("%s:%d", table, position))
		}
		if err != nil {
			return fmt.Errorf("select row: %w", err)
		}
		current, err := decodeCells(raw)
		if err != nil {
			return err
		}
		row := current.Padded(firstColumn + len(values))
		copy(row[firstColumn:], values)
		cells, err := encodeCells(row)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE sheet_rows SET cells = ? WHERE sheet = ? AND position = ?`, cells, table, position)
		return err
	})
}

func (s *sqliteStore) ClearAndRewrite(ctx context.Context, table string, rows []Row) error {
	return s.withTx(ctx, "rewrite", table, func(tx *sql.Tx) error {
		if _, err := loadRows(ctx, tx, table); err != nil {
			return err
		}
		return rewriteRows(ctx, tx, table, rows)
	})
}
