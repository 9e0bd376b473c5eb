package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/repository"
)

const table = "t"

func newStore(t *testing.T, rows ...repository.Row) repository.TableStore {
	t.Helper()
	ctx := context.Background()
	s := repository.NewMemoryStore()
	require.NoError(t, s.EnsureTable(ctx, table, repository.Row{"date", "id", "v"}))
	if len(rows) > 0 {
		require.NoError(t, s.AppendRows(ctx, table, rows))
	}
	return s
}

func readAll(t *testing.T, s repository.TableStore) []repository.Row {
	t.Helper()
	rows, err := s.ReadAll(context.Background(), table)
	require.NoError(t, err)
	return rows
}

func onDay(day string) func(repository.Row) bool {
	return func(r repository.Row) bool { return r.Cell(0) == day }
}

func TestDayReplace(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces only the day", func(t *testing.T) {
		s := newStore(t,
			repository.Row{"01/03/2024", "1", "SI"},
			repository.Row{"05/03/2024", "1", "NO"},
			repository.Row{"05/03/2024", "2", "NO"},
			repository.Row{"08/03/2024", "1", "SI"},
		)
		fresh := []repository.Row{{"05/03/2024", "1", "SI"}}

		res, err := DayReplace(ctx, s, table, onDay("05/03/2024"), fresh)
		require.NoError(t, err)
		assert.Equal(t, DayResult{Removed: 2, Written: 1}, res)
		assert.Equal(t, []repository.Row{
			{"01/03/2024", "1", "SI"},
			{"08/03/2024", "1", "SI"},
			{"05/03/2024", "1", "SI"},
		}, readAll(t, s))
	})

	t.Run("idempotent", func(t *testing.T) {
		s := newStore(t, repository.Row{"01/03/2024", "1", "SI"})
		fresh := []repository.Row{{"05/03/2024", "1", "SI"}, {"05/03/2024", "2", "NO"}}

		_, err := DayReplace(ctx, s, table, onDay("05/03/2024"), fresh)
		require.NoError(t, err)
		once := readAll(t, s)

		_, err = DayReplace(ctx, s, table, onDay("05/03/2024"), fresh)
		require.NoError(t, err)
		assert.Equal(t, once, readAll(t, s))
	})

	t.Run("self heals duplicates", func(t *testing.T) {
		s := newStore(t,
			repository.Row{"05/03/2024", "1", "SI"},
			repository.Row{"05/03/2024", "1", "SI"},
		)
		_, err := DayReplace(ctx, s, table, onDay("05/03/2024"), []repository.Row{{"05/03/2024", "1", "NO"}})
		require.NoError(t, err)
		assert.Equal(t, []repository.Row{{"05/03/2024", "1", "NO"}}, readAll(t, s))
	})

	t.Run("empty fresh set deletes the day", func(t *testing.T) {
		s := newStore(t, repository.Row{"05/03/2024", "1", "SI"}, repository.Row{"06/03/2024", "1", "SI"})
		res, err := DayReplace(ctx, s, table, onDay("05/03/2024"), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Removed)
		assert.Equal(t, []repository.Row{{"06/03/2024", "1", "SI"}}, readAll(t, s))
	})
}

func byID(id string) func(repository.Row) bool {
	return func(r repository.Row) bool { return r.Cell(1) == id }
}

func TestFindOrAppend(t *testing.T) {
	ctx := context.Background()
	span := Span{FirstColumn: 2, Width: 1}

	t.Run("appends when absent", func(t *testing.T) {
		s := newStore(t, repository.Row{"01/03/2024", "1", "5"})
		out, err := FindOrAppend(ctx, s, table, byID("2"), span, repository.Row{"7"}, repository.Row{"01/03/2024", "2", "7"})
		require.NoError(t, err)
		assert.Equal(t, Outcome{Position: 2, Created: true}, out)
		assert.Len(t, readAll(t, s), 2)
	})

	t.Run("updates only the span of the first match", func(t *testing.T) {
		s := newStore(t,
			repository.Row{"01/03/2024", "1", "5"},
			repository.Row{"01/03/2024", "1", "6"},
		)
		out, err := FindOrAppend(ctx, s, table, byID("1"), span, repository.Row{"9"}, repository.Row{"x", "1", "9"})
		require.NoError(t, err)
		assert.Equal(t, Outcome{Position: 1, Duplicates: 1}, out)
		assert.Equal(t, []repository.Row{
			{"01/03/2024", "1", "9"},
			{"01/03/2024", "1", "6"},
		}, readAll(t, s))
	})

	t.Run("repeated upserts keep one row", func(t *testing.T) {
		s := newStore(t)
		for _, v := range []string{"3", "4", "5"} {
			_, err := FindOrAppend(ctx, s, table, byID("1"), span, repository.Row{v}, repository.Row{"01/03/2024", "1", v})
			require.NoError(t, err)
		}
		assert.Equal(t, []repository.Row{{"01/03/2024", "1", "5"}}, readAll(t, s))
	})

	t.Run("span width mismatch", func(t *testing.T) {
		s := newStore(t)
		_, err := FindOrAppend(ctx, s, table, byID("1"), span, repository.Row{"1", "2"}, nil)
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeValidation))
	})
}

func TestLocate(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rows := []repository.Row{{"x", a.String()}, {"y", b.String()}, {"z", a.String()}}

	pos, dup := Locate(rows, 1, a)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 1, dup)

	pos, dup = Locate(rows, 1, b)
	assert.Equal(t, 2, pos)
	assert.Zero(t, dup)

	pos, _ = Locate(rows, 1, uuid.New())
	assert.Zero(t, pos)
}

func TestReplaceByKey(t *testing.T) {
	ctx := context.Background()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	s := newStore(t,
		repository.Row{"01/03/2024", a.String()},
		repository.Row{"02/03/2024", b.String()},
		repository.Row{"03/03/2024", c.String()},
	)

	// Another actor deletes the first row after the caller listed the table;
	// the edit must still land on b.
	require.NoError(t, s.DeleteRows(ctx, table, 1))

	require.NoError(t, ReplaceByKey(ctx, s, table, 1, b, repository.Row{"09/03/2024", b.String()}))
	assert.Equal(t, []repository.Row{
		{"09/03/2024", b.String()},
		{"03/03/2024", c.String()},
	}, readAll(t, s))

	err := ReplaceByKey(ctx, s, table, 1, a, repository.Row{"x", a.String()})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
}

func TestDeleteByKey(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	s := newStore(t, repository.Row{"01/03/2024", a.String()}, repository.Row{"02/03/2024", b.String()})

	require.NoError(t, DeleteByKey(ctx, s, table, 1, a))
	assert.Equal(t, []repository.Row{{"02/03/2024", b.String()}}, readAll(t, s))

	err := DeleteByKey(ctx, s, table, 1, a)
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
}

func TestDeleteByKey_LegacyRow(t *testing.T) {
	ctx := context.Background()
	legacy := repository.Row{"06/04/2024", "Lions", "Local", "1", "0", "0", "0", ""}
	s := repository.NewMemoryStore()
	require.NoError(t, s.EnsureTable(ctx, repository.TableMatches, repository.Headers[repository.TableMatches]))
	require.NoError(t, s.AppendRows(ctx, repository.TableMatches, []repository.Row{legacy}))

	keyed, _ := repository.WithKeys(repository.TableMatches, []repository.Row{legacy}, repository.MatchKeyCol)
	key := uuid.MustParse(keyed[0].Cell(repository.MatchKeyCol))

	require.NoError(t, DeleteByKey(ctx, s, repository.TableMatches, repository.MatchKeyCol, key))
	rows, err := s.ReadAll(ctx, repository.TableMatches)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// failingStore fails every write with StoreUnavailable.
type failingStore struct {
	repository.TableStore
}

func (failingStore) ClearAndRewrite(context.Context, string, []repository.Row) error {
	return domain.ErrStoreUnavailable("rewrite", errors.New("network down"))
}

func TestDayReplace_StoreFailure(t *testing.T) {
	s := failingStore{newStore(t, repository.Row{"05/03/2024", "1", "SI"})}
	_, err := DayReplace(context.Background(), s, table, onDay("05/03/2024"), nil)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeStoreUnavailable))
}

func TestDeleteByKey_LegacyWhitespaceVariants(t *testing.T) {
	ctx := context.Background()
	padded := repository.Row{"01/03/2024", "Rival ", "Local", ""}
	plain := repository.Row{"01/03/2024", "Rival", "Local", ""}
	s := repository.NewMemoryStore()
	require.NoError(t, s.EnsureTable(ctx, repository.TableFixtures, repository.Headers[repository.TableFixtures]))
	require.NoError(t, s.AppendRows(ctx, repository.TableFixtures, []repository.Row{padded, plain}))

	keyed, _ := repository.WithKeys(repository.TableFixtures, []repository.Row{padded, plain}, repository.FixtureKeyCol)
	second := uuid.MustParse(keyed[1].Cell(repository.FixtureKeyCol))

	pos, dups := Locate(keyed, repository.FixtureKeyCol, second)
	assert.Equal(t, 2, pos)
	assert.Zero(t, dups)

	require.NoError(t, DeleteByKey(ctx, s, repository.TableFixtures, repository.FixtureKeyCol, second))
	rows, err := s.ReadAll(ctx, repository.TableFixtures)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rival ", rows[0][1], "the addressed row was removed, not its look-alike")
}
