package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/teamdesk/platform/internal/domain"
)

// postgresStore keeps every table in sheet_rows. Position 0 holds the
// header; data rows start at 1.
type postgresStore struct {
	db TxBeginner
}

// NewPostgresStore returns a pgx-backed TableStore. The sheet_rows schema
// is applied by infra.RunMigrations.
func NewPostgresStore(db TxBeginner) TableStore {
	return &postgresStore{db: db}
}

func storeErr(op, table string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.ErrStoreUnavailable(op+" "+table, err)
}

// withTx runs fn in a transaction; every store call is atomic on its own.
func (s *postgresStore) withTx(ctx context.Context, op, table string, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storeErr(op, table, fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return storeErr(op, table, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr(op, table, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// lastPosition returns the highest position of table, or ErrNotFound when
// the table has no header row.
func lastPosition(ctx context.Context, db DBTX, table string) (int, error) {
	var last int
	err := db.QueryRow(ctx, `
		SELECT COALESCE(MAX(position), -1) FROM sheet_rows WHERE sheet = $1`, table).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("select last position: %w", err)
	}
	if last < 0 {
		return 0, domain.ErrNotFound("table", table)
	}
	return last, nil
}

func copyRows(ctx context.Context, tx pgx.Tx, table string, from int, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	src := make([][]any, len(rows))
	for i, r := range rows {
		cells := []string(r)
		if cells == nil {
			cells = []string{}
		}
		src[i] = []any{table, from + i, cells}
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{"sheet_rows"}, []string{"sheet", "position", "cells"}, pgx.CopyFromRows(src))
	if err != nil {
		return fmt.Errorf("copy rows: %w", err)
	}
	return nil
}

func (s *postgresStore) EnsureTable(ctx context.Context, table string, header Row) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO sheet_rows (sheet, position, cells)
		SELECT $1::text, 0, $2::text[]
		WHERE NOT EXISTS (SELECT 1 FROM sheet_rows WHERE sheet = $1 AND position = 0)`, table, []string(header))
	if err != nil {
		return storeErr("ensure", table, err)
	}
	return nil
}

func (s *postgresStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	if _, err := lastPosition(ctx, s.db, table); err != nil {
		return nil, storeErr("read", table, err)
	}
	rows, err := s.db.Query(ctx, `
		SELECT cells FROM sheet_rows
		WHERE sheet = $1 AND position > 0
		ORDER BY position ASC`, table)
	if err != nil {
		return nil, storeErr("read", table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, storeErr("read", table, fmt.Errorf("scan row: %w", err))
		}
		out = append(out, Row(cells))
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("read", table, err)
	}
	return out, nil
}

func (s *postgresStore) AppendRows(ctx context.Context, table string, rows []Row) error {
	return s.withTx(ctx, "append", table, func(tx pgx.Tx) error {
		last, err := lastPosition(ctx, tx, table)
		if err != nil {
			return err
		}
		return copyRows(ctx, tx, table, last+1, rows)
	})
}

func (s *postgresStore) InsertRows(ctx context.Context, table string, position int, rows []Row) error {
	return s.withTx(ctx, "insert", table, func(tx pgx.Tx) error {
		last, err := lastPosition(ctx, tx, table)
		if err != nil {
			return err
		}
		if err := checkPosition(table, position, last+1); err != nil {
			return err
		}
		// sheet_rows_pkey is deferred, so the shift may overlap transiently.
		if _, err := tx.Exec(ctx, `
			UPDATE sheet_rows SET position = position + $3
			WHERE sheet = $1 AND position >= $2`, table, position, len(rows)); err != nil {
			return fmt.Errorf("shift rows: %w", err)
		}
		return copyRows(ctx, tx, table, position, rows)
	})
}

func (s *postgresStore) DeleteRows(ctx context.Context, table string, positions ...int) error {
	if len(positions) == 0 {
		return nil
	}
	return s.withTx(ctx, "delete", table, func(tx pgx.Tx) error {
		last, err := lastPosition(ctx, tx, table)
		if err != nil {
			return err
		}
		for _, p := range positions {
			if err := checkPosition(table, p, last); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `
			DELETE FROM sheet_rows WHERE sheet = $1 AND position = ANY($2)`, table, positions); err != nil {
			return fmt.Errorf("delete rows: %w", err)
		}
		_, err = tx.Exec(ctx, `
			UPDATE sheet_rows s SET position = r.rn
			FROM (
				SELECT position, row_number() OVER (ORDER BY position) AS rn
				FROM sheet_rows WHERE sheet = $1 AND position > 0
			) r
			WHERE s.sheet = $1 AND s.position = r.position AND s.position <> r.rn`, table)
		if err != nil {
			return fmt.Errorf("renumber rows: %w", err)
		}
		return nil
	})
}

func (s *postgresStore) UpdateRange(ctx context.Context, table string, position, firstColumn int, values Row) error {
	if firstColumn < 0 {
		return domain.ErrValidation(fmt.Sprintf("negative first column %d", firstColumn))
	}
	return s.withTx(ctx, "update", table, func(tx pgx.Tx) error {
		var cells []string
		err := tx.QueryRow(ctx, `
			SELECT cells FROM sheet_rows
			WHERE sheet = $1 AND position = $2 AND position > 0
			FOR UPDATE`, table, position).Scan(&cells)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound("row", fmt.Sprintf("%s:%d", table, position))
		}
		if err != nil {
			return fmt.Errorf("select row: %w", err)
		}
		row := Row(cells).Padded(firstColumn + len(values))
		copy(row[firstColumn:], values)
		if _, err := tx.Exec(ctx, `
			UPDATE sheet_rows SET cells = $3 WHERE sheet = $1 AND position = $2`,
			table, position, []string(row)); err != nil {
			return fmt.Errorf("update row: %w", err)
		}
		return nil
	})
}

func (s *postgresStore) ClearAndRewrite(ctx context.Context, table string, rows []Row) error {
	return s.withTx(ctx, "rewrite", table, func(tx pgx.Tx) error {
		if _, err := lastPosition(ctx, tx, table); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sheet_rows WHERE sheet = $1 AND position > 0`, table); err != nil {
			return fmt.Errorf("clear rows: %w", err)
		}
		return copyRows(ctx, tx, table, 1, rows)
	})
}
