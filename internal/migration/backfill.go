package migration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teamdesk/platform/internal/repository"
)

// KeyedTables lists the tables that carry a synthetic key column.
var KeyedTables = map[string]int{
	repository.TableMatches:  repository.MatchKeyCol,
	repository.TableFixtures: repository.FixtureKeyCol,
}

// KeyBackfiller writes deterministic keys into legacy rows that were
// created before the key column existed. Readers already derive the same
// keys on the fly, so backfilling only makes them visible in the store.
type KeyBackfiller struct {
	store  repository.TableStore
	logger *slog.Logger
}

// NewKeyBackfiller creates a backfiller over store.
func NewKeyBackfiller(store repository.TableStore, logger *slog.Logger) *KeyBackfiller {
	return &KeyBackfiller{store: store, logger: logger}
}

// Backfill fills missing keys of one table and returns how many rows changed.
func (b *KeyBackfiller) Backfill(ctx context.Context, table string) (int, error) {
	keyCol, ok := KeyedTables[table]
	if !ok {
		return 0, fmt.Errorf("table %s has no key column", table)
	}
	rows, err := b.store.ReadAll(ctx, table)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", table, err)
	}
	keyed, filled := repository.WithKeys(table, rows, keyCol)
	for _, pos := range filled {
		key := keyed[pos-1].Cell(keyCol)
		if err := b.store.UpdateRange(ctx, table, pos, keyCol, repository.Row{key}); err != nil {
			return 0, fmt.Errorf("write key for %s row %d: %w", table, pos, err)
		}
		b.logger.Debug("backfilled row key", "table", table, "position", pos, "key", key)
	}
	if len(filled) > 0 {
		b.logger.Info("backfilled legacy keys", "table", table, "rows", len(filled))
	}
	return len(filled), nil
}

// BackfillAll runs Backfill over every keyed table.
func (b *KeyBackfiller) BackfillAll(ctx context.Context) (int, error) {
	total := 0
	for _, table := range []string{repository.TableMatches, repository.TableFixtures} {
		n, err := b.Backfill(ctx, table)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
