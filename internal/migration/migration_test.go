package migration

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdesk/platform/internal/repository"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func seeded(t *testing.T) repository.TableStore {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, repository.EnsureSchema(ctx, store))
	require.NoError(t, store.AppendRows(ctx, repository.TableMatches, []repository.Row{
		{"06/04/2024", "Lions", "Local", "2", "1", "0", "0", "Smith (2)"},
		{"13/04/2024", "Tigers", "Visitante", "0", "0", "0", "0", "", uuid.NewString()},
	}))
	require.NoError(t, store.AppendRows(ctx, repository.TableFixtures, []repository.Row{
		{"20/04/2024", "Bears", "Local", ""},
	}))
	return store
}

func TestBackfill_FillsOnlyLegacyRows(t *testing.T) {
	ctx := context.Background()
	store := seeded(t)
	b := NewKeyBackfiller(store, testLogger)

	before, err := store.ReadAll(ctx, repository.TableMatches)
	require.NoError(t, err)
	expected, _ := repository.WithKeys(repository.TableMatches, before, repository.MatchKeyCol)

	n, err := b.Backfill(ctx, repository.TableMatches)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after, err := store.ReadAll(ctx, repository.TableMatches)
	require.NoError(t, err)
	assert.Equal(t, expected, after, "stored keys equal the keys readers derive")
}

func TestBackfill_Idempotent(t *testing.T) {
	ctx := context.Background()
	b := NewKeyBackfiller(seeded(t), testLogger)

	n, err := b.BackfillAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = b.BackfillAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBackfill_UnkeyedTable(t *testing.T) {
	b := NewKeyBackfiller(seeded(t), testLogger)
	_, err := b.Backfill(context.Background(), repository.TablePlayers)
	require.Error(t, err)
}
