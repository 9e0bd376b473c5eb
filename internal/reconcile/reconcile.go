// Package reconcile holds the write protocols that keep the row store
// consistent without transactions: whole-day replacement, find-or-append
// upserts, and key-addressed positional edits. None of them lock; two
// actors running the same protocol concurrently resolve as last write wins.
package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/repository"
)

// DayResult reports what a day replacement did.
type DayResult struct {
	Removed int `json:"removed"`
	Written int `json:"written"`
}

// DayReplace rewrites table so that the rows matched by sameDay are replaced
// by fresh. An empty fresh set deletes the day. Running it twice with the
// same input leaves the same table, and it also removes any duplicates a
// previous partial write left behind.
func DayReplace(ctx context.Context, store repository.TableStore, table string, sameDay func(repository.Row) bool, fresh []repository.Row) (DayResult, error) {
	rows, err := store.ReadAll(ctx, table)
	if err != nil {
		return DayResult{}, fmt.Errorf("read %s: %w", table, err)
	}

	kept := make([]repository.Row, 0, len(rows)+len(fresh))
	var res DayResult
	for _, r := range rows {
		if sameDay(r) {
			res.Removed++
			continue
		}
		kept = append(kept, r)
	}
	kept = append(kept, fresh...)
	res.Written = len(fresh)

	if err := store.ClearAndRewrite(ctx, table, kept); err != nil {
		return DayResult{}, fmt.Errorf("rewrite %s: %w", table, err)
	}
	return res, nil
}

// Span is the column range an upsert overwrites on an existing row.
type Span struct {
	FirstColumn int
	Width       int
}

// Outcome reports where a find-or-append landed.
type Outcome struct {
	Position   int  `json:"position"`
	Created    bool `json:"created"`
	Duplicates int  `json:"duplicates"`
}

// FindOrAppend updates the span of the first row accepted by match, or
// appends newRow when none is. Later matching rows are counted in
// Duplicates and left untouched; callers report them.
func FindOrAppend(ctx context.Context, store repository.TableStore, table string, match func(repository.Row) bool, span Span, values, newRow repository.Row) (Outcome, error) {
	if len(values) != span.Width {
		return Outcome{}, domain.ErrValidation(fmt.Sprintf("span width %d does not match %d values", span.Width, len(values)))
	}
	rows, err := store.ReadAll(ctx, table)
	if err != nil {
		return Outcome{}, fmt.Errorf("read %s: %w", table, err)
	}

	var out Outcome
	for i, r := range rows {
		if !match(r) {
			continue
		}
		if out.Position == 0 {
			out.Position = i + 1
			continue
		}
		out.Duplicates++
	}

	if out.Position > 0 {
		if err := store.UpdateRange(ctx, table, out.Position, span.FirstColumn, values); err != nil {
			return Outcome{}, fmt.Errorf("update %s row %d: %w", table, out.Position, err)
		}
		return out, nil
	}

	if err := store.AppendRows(ctx, table, []repository.Row{newRow}); err != nil {
		return Outcome{}, fmt.Errorf("append %s: %w", table, err)
	}
	out.Position = len(rows) + 1
	out.Created = true
	return out, nil
}

// Locate returns the 1-based position of the first row whose keyCol holds
// key, and how many other rows share it. Position is 0 when absent. Rows
// must come from repository.WithKeys so legacy rows are addressable.
func Locate(rows []repository.Row, keyCol int, key uuid.UUID) (position, duplicates int) {
	want := key.String()
	for i, r := range rows {
		if r.Cell(keyCol) != want {
			continue
		}
		if position == 0 {
			position = i + 1
			continue
		}
		duplicates++
	}
	return position, duplicates
}

func locateFresh(ctx context.Context, store repository.TableStore, table string, keyCol int, key uuid.UUID) (int, error) {
	rows, err := store.ReadAll(ctx, table)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", table, err)
	}
	keyed, _ := repository.WithKeys(table, rows, keyCol)
	pos, _ := Locate(keyed, keyCol, key)
	if pos == 0 {
		return 0, domain.ErrNotFound(table+" row", key.String())
	}
	return pos, nil
}

// ReplaceByKey swaps the row identified by key for row, keeping its
// position. The position is resolved from a fresh read so a row deleted or
// inserted since the caller last listed the table cannot shift the edit
// onto the wrong row.
func ReplaceByKey(ctx context.Context, store repository.TableStore, table string, keyCol int, key uuid.UUID, row repository.Row) error {
	pos, err := locateFresh(ctx, store, table, keyCol, key)
	if err != nil {
		return err
	}
	if err := store.DeleteRows(ctx, table, pos); err != nil {
		return fmt.Errorf("delete %s row %d: %w", table, pos, err)
	}
	if err := store.InsertRows(ctx, table, pos, []repository.Row{row}); err != nil {
		return fmt.Errorf("insert %s row %d: %w", table, pos, err)
	}
	return nil
}

// DeleteByKey removes the row identified by key.
func DeleteByKey(ctx context.Context, store repository.TableStore, table string, keyCol int, key uuid.UUID) error {
	pos, err := locateFresh(ctx, store, table, keyCol, key)
	if err != nil {
		return err
	}
	if err := store.DeleteRows(ctx, table, pos); err != nil {
		return fmt.Errorf("delete %s row %d: %w", table, pos, err)
	}
	return nil
}
