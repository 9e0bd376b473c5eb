package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdesk/platform/internal/domain"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) TableStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLiteStore(context.Background(), db)
	require.NoError(t, err)
	return store
}

// extraStoreFactories is filled by build-tagged files for stores that need
// an external server.
var extraStoreFactories = map[string]func(t *testing.T) TableStore{}

func storeFactories() map[string]func(t *testing.T) TableStore {
	factories := map[string]func(t *testing.T) TableStore{
		"memory": func(*testing.T) TableStore { return NewMemoryStore() },
		"sqlite": openSQLite,
	}
	for name, open := range extraStoreFactories {
		factories[name] = open
	}
	return factories
}

func rows(vals ...string) []Row {
	out := make([]Row, len(vals))
	for i, v := range vals {
		out[i] = Row{v}
	}
	return out
}

func firstCells(rs []Row) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Cell(0)
	}
	return out
}

func TestTableStore_Contract(t *testing.T) {
	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("missing table", func(t *testing.T) {
				s := open(t)
				_, err := s.ReadAll(ctx, "nope")
				require.Error(t, err)
				assert.True(t, domain.HasCode(err, domain.CodeNotFound))
			})

			t.Run("ensure is idempotent and header is hidden", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.EnsureTable(ctx, "t", Row{"h"}))
				require.NoError(t, s.AppendRows(ctx, "t", rows("a")))
				require.NoError(t, s.EnsureTable(ctx, "t", Row{"other"}))

				got, err := s.ReadAll(ctx, "t")
				require.NoError(t, err)
				assert.Equal(t, []string{"a"}, firstCells(got))
			})

			t.Run("append insert delete", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.EnsureTable(ctx, "t", Row{"h"}))
				require.NoError(t, s.AppendRows(ctx, "t", rows("a", "b", "c")))
				require.NoError(t, s.InsertRows(ctx, "t", 2, rows("x", "y")))

				got, err := s.ReadAll(ctx, "t")
				require.NoError(t, err)
				assert.Equal(t, []string{"a", "x", "y", "b", "c"}, firstCells(got))

				require.NoError(t, s.DeleteRows(ctx, "t", 1, 4))
				got, err = s.ReadAll(ctx, "t")
				require.NoError(t, err)
				assert.Equal(t, []string{"x", "y", "c"}, firstCells(got))

				require.NoError(t, s.InsertRows(ctx, "t", 4, rows("z")), "insert after last row appends")
				got, err = s.ReadAll(ctx, "t")
				require.NoError(t, err)
				assert.Equal(t, []string{"x", "y", "c", "z"}, firstCells(got))
			})

			t.Run("out of range positions", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.EnsureTable(ctx, "t", Row{"h"}))
				require.NoError(t, s.AppendRows(ctx, "t", rows("a")))

				assert.True(t, domain.HasCode(s.DeleteRows(ctx, "t", 2), domain.CodeNotFound))
				assert.True(t, domain.HasCode(s.InsertRows(ctx, "t", 3, rows("b")), domain.CodeNotFound))
				assert.True(t, domain.HasCode(s.UpdateRange(ctx, "t", 0, 0, Row{"b"}), domain.CodeNotFound))
			})

			t.Run("update range pads short rows", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.EnsureTable(ctx, "t", Row{"h"}))
				require.NoError(t, s.AppendRows(ctx, "t", []Row{{"a", "b"}, {"keep"}}))
				require.NoError(t, s.UpdateRange(ctx, "t", 1, 3, Row{"x", "y"}))

				got, err := s.ReadAll(ctx, "t")
				require.NoError(t, err)
				assert.Equal(t, Row{"a", "b", "", "x", "y"}, got[0])
				assert.Equal(t, Row{"keep"}, got[1])
			})

			t.Run("clear and rewrite", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.EnsureTable(ctx, "t", Row{"h"}))
				require.NoError(t, s.AppendRows(ctx, "t", rows("a", "b")))
				require.NoError(t, s.ClearAndRewrite(ctx, "t", rows("c")))

				got, err := s.ReadAll(ctx, "t")
				require.NoError(t, err)
				assert.Equal(t, []string{"c"}, firstCells(got))

				require.NoError(t, s.ClearAndRewrite(ctx, "t", nil))
				got, err = s.ReadAll(ctx, "t")
				require.NoError(t, err)
				assert.Empty(t, got)
			})

			t.Run("reads are copies", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.EnsureTable(ctx, "t", Row{"h"}))
				require.NoError(t, s.AppendRows(ctx, "t", rows("a")))

				got, err := s.ReadAll(ctx, "t")
				require.NoError(t, err)
				got[0][0] = "mutated"

				again, err := s.ReadAll(ctx, "t")
				require.NoError(t, err)
				assert.Equal(t, "a", again[0].Cell(0))
			})
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, EnsureSchema(ctx, s))

	for _, name := range TableNames {
		got, err := s.ReadAll(ctx, name)
		require.NoError(t, err, name)
		assert.Empty(t, got)
	}
}

func TestRow_CellAndPadded(t *testing.T) {
	r := Row{" a ", "b"}
	assert.Equal(t, "a", r.Cell(0))
	assert.Equal(t, "", r.Cell(5))
	assert.Equal(t, "", r.Cell(-1))

	p := r.Padded(4)
	assert.Len(t, p, 4)
	p[0] = "z"
	assert.Equal(t, " a ", r[0], "padded is a copy")
	assert.Len(t, r.Padded(1), 2, "never truncates")
}
