package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/guard"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// flakyStore fails every call with StoreUnavailable while down is set.
type flakyStore struct {
	TableStore
	down  bool
	calls int
}

func (f *flakyStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	f.calls++
	if f.down {
		return nil, domain.ErrStoreUnavailable("read "+table, errors.New("quota exceeded"))
	}
	return f.TableStore.ReadAll(ctx, table)
}

func TestGuardedStore_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{TableStore: NewMemoryStore(), down: true}
	require.NoError(t, inner.EnsureTable(ctx, TablePlayers, Headers[TablePlayers]))
	s := NewGuardedStore(inner, guard.NewCircuitBreaker(2, time.Minute), testLogger)

	for i := 0; i < 2; i++ {
		_, err := s.ReadAll(ctx, TablePlayers)
		require.Error(t, err)
	}
	assert.Equal(t, 2, inner.calls)

	_, err := s.ReadAll(ctx, TablePlayers)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeStoreUnavailable))
	assert.Equal(t, 2, inner.calls, "open circuit fails fast without calling the store")
}

func TestGuardedStore_NotFoundDoesNotTrip(t *testing.T) {
	ctx := context.Background()
	s := NewGuardedStore(NewMemoryStore(), guard.NewCircuitBreaker(1, time.Minute), testLogger)

	_, err := s.ReadAll(ctx, "missing")
	require.True(t, domain.HasCode(err, domain.CodeNotFound))

	require.NoError(t, s.EnsureTable(ctx, "missing", Row{"h"}))
	_, err = s.ReadAll(ctx, "missing")
	require.NoError(t, err)
}

func TestGuardedStore_PassesThrough(t *testing.T) {
	ctx := context.Background()
	s := NewGuardedStore(NewMemoryStore(), guard.NewCircuitBreaker(3, time.Minute), testLogger)

	require.NoError(t, s.EnsureTable(ctx, "t", Row{"h"}))
	require.NoError(t, s.AppendRows(ctx, "t", rows("a", "b")))
	require.NoError(t, s.InsertRows(ctx, "t", 1, rows("z")))
	require.NoError(t, s.UpdateRange(ctx, "t", 2, 1, Row{"x"}))
	require.NoError(t, s.DeleteRows(ctx, "t", 3))

	got, err := s.ReadAll(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, []Row{{"z"}, {"a", "x"}}, got)

	require.NoError(t, s.ClearAndRewrite(ctx, "t", nil))
	got, err = s.ReadAll(ctx, "t")
	require.NoError(t, err)
	assert.Empty(t, got)
}
