package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so queries work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TxBeginner is a DBTX that can open a transaction. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Row is one store row: an ordered list of text cells.
type Row []string

// Cell returns the trimmed cell at column i, or "" when the row is short.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// Padded returns a copy of r extended with empty cells to at least n columns.
func (r Row) Padded(n int) Row {
	out := make(Row, max(n, len(r)))
	copy(out, r)
	return out
}

// TableStore is the row-oriented external store. Tables hold a header row
// followed by data rows; data positions are 1-based and ReadAll never
// returns the header. Calls are independent: a sequence of calls that
// fails halfway leaves the earlier calls applied.
type TableStore interface {
	// EnsureTable creates the table with its header row when absent.
	EnsureTable(ctx context.Context, table string, header Row) error

	// ReadAll returns every data row in position order; row i is position i+1.
	ReadAll(ctx context.Context, table string) ([]Row, error)

	// AppendRows adds rows after the last data row.
	AppendRows(ctx context.Context, table string, rows []Row) error

	// InsertRows inserts rows before the given position; later rows shift down.
	InsertRows(ctx context.Context, table string, position int, rows []Row) error

	// DeleteRows removes the given positions; later rows renumber.
	DeleteRows(ctx context.Context, table string, positions ...int) error

	// UpdateRange overwrites len(values) cells of one row starting at the
	// 0-based firstColumn, padding the row when it is short.
	UpdateRange(ctx context.Context, table string, position, firstColumn int, values Row) error

	// ClearAndRewrite replaces every data row with rows. The header stays.
	ClearAndRewrite(ctx context.Context, table string, rows []Row) error
}
