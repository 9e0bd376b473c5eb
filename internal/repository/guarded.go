package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/guard"
)

// guardedStore wraps a TableStore with a per-table circuit breaker. Only
// StoreUnavailable failures count against the circuit; NotFound and
// validation errors are caller mistakes, not outages.
type guardedStore struct {
	inner   TableStore
	breaker *guard.CircuitBreaker
	logger  *slog.Logger
}

// NewGuardedStore decorates inner so that a table whose calls keep failing
// fails fast with StoreUnavailable until the breaker's reset timeout.
func NewGuardedStore(inner TableStore, breaker *guard.CircuitBreaker, logger *slog.Logger) TableStore {
	return &guardedStore{inner: inner, breaker: breaker, logger: logger}
}

func (s *guardedStore) call(ctx context.Context, op, table string, fn func() error) error {
	if res := s.breaker.Check(ctx, table); !res.Allowed {
		s.logger.Warn("store call rejected", "op", op, "table", table, "guard", res.Guard, "reason", res.Reason)
		return domain.ErrStoreUnavailable(op+" "+table, errors.New(res.Reason))
	}
	err := fn()
	if err != nil && domain.HasCode(err, domain.CodeStoreUnavailable) {
		s.breaker.RecordFailure(table)
		s.logger.Error("store call failed", "op", op, "table", table, "error", err)
		return err
	}
	s.breaker.RecordSuccess(table)
	return err
}

func (s *guardedStore) EnsureTable(ctx context.Context, table string, header Row) error {
	return s.call(ctx, "ensure", table, func() error {
		return s.inner.EnsureTable(ctx, table, header)
	})
}

func (s *guardedStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	var rows []Row
	err := s.call(ctx, "read", table, func() error {
		var err error
		rows, err = s.inner.ReadAll(ctx, table)
		return err
	})
	return rows, err
}

func (s *guardedStore) AppendRows(ctx context.Context, table string, rows []Row) error {
	return s.call(ctx, "append", table, func() error {
		return s.inner.AppendRows(ctx, table, rows)
	})
}

func (s *guardedStore) InsertRows(ctx context.Context, table string, position int, rows []Row) error {
	return s.call(ctx, "insert", table, func() error {
		return s.inner.InsertRows(ctx, table, position, rows)
	})
}

func (s *guardedStore) DeleteRows(ctx context.Context, table string, positions ...int) error {
	return s.call(ctx, "delete", table, func() error {
		return s.inner.DeleteRows(ctx, table, positions...)
	})
}

func (s *guardedStore) UpdateRange(ctx context.Context, table string, position, firstColumn int, values Row) error {
	return s.call(ctx, "update", table, func() error {
		return s.inner.UpdateRange(ctx, table, position, firstColumn, values)
	})
}

func (s *guardedStore) ClearAndRewrite(ctx context.Context, table string, rows []Row) error {
	return s.call(ctx, "rewrite", table, func() error {
		return s.inner.ClearAndRewrite(ctx, table, rows)
	})
}
