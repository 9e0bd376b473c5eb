package service

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/guard"
	"github.com/teamdesk/platform/internal/reconcile"
	"github.com/teamdesk/platform/internal/repository"
)

// FixtureService maintains the schedule of upcoming matches.
type FixtureService struct {
	store  repository.TableStore
	idem   *guard.IdempotencyGuard
	events EventPublisher
	logger *slog.Logger
	newKey func() uuid.UUID
}

// NewFixtureService creates a FixtureService.
func NewFixtureService(store repository.TableStore, idem *guard.IdempotencyGuard, events EventPublisher, logger *slog.Logger) *FixtureService {
	return &FixtureService{store: store, idem: idem, events: events, logger: logger, newKey: uuid.New}
}

func validateFixture(f domain.FixtureEntry) error {
	if f.Date.IsZero() {
		return domain.ErrValidation("date is required")
	}
	if strings.TrimSpace(f.Opponent) == "" {
		return domain.ErrValidation("opponent is required")
	}
	if !f.Venue.Valid() {
		return domain.ErrValidation("venue must be home or away")
	}
	return nil
}

func normalizeFixture(f domain.FixtureEntry) domain.FixtureEntry {
	f.Date = domain.Day(f.Date)
	f.Opponent = strings.TrimSpace(f.Opponent)
	f.LocationLink = strings.TrimSpace(f.LocationLink)
	return f
}

// Add appends a fixture with a fresh key.
func (s *FixtureService) Add(ctx context.Context, f domain.FixtureEntry, idempotencyKey string) (domain.FixtureEntry, error) {
	if err := validateFixture(f); err != nil {
		return domain.FixtureEntry{}, err
	}
	if res := s.idem.Check(ctx, idempotencyKey); !res.Allowed {
		return domain.FixtureEntry{}, domain.ErrValidation(res.Reason)
	}
	f = normalizeFixture(f)
	f.Key = s.newKey()
	if err := s.store.AppendRows(ctx, repository.TableFixtures, []repository.Row{repository.EncodeFixture(f)}); err != nil {
		s.idem.Remove(idempotencyKey)
		return domain.FixtureEntry{}, err
	}
	s.logger.Info("fixture added", "key", f.Key, "opponent", f.Opponent)
	s.events.Publish(ctx, domain.NewFixtureChangedEvent(f))
	return f, nil
}

// Edit replaces the fixture with key, keeping its place in the table.
func (s *FixtureService) Edit(ctx context.Context, key uuid.UUID, f domain.FixtureEntry) (domain.FixtureEntry, error) {
	if err := validateFixture(f); err != nil {
		return domain.FixtureEntry{}, err
	}
	f = normalizeFixture(f)
	f.Key = key
	if err := reconcile.ReplaceByKey(ctx, s.store, repository.TableFixtures, repository.FixtureKeyCol, key, repository.EncodeFixture(f)); err != nil {
		return domain.FixtureEntry{}, err
	}
	s.logger.Info("fixture edited", "key", key)
	s.events.Publish(ctx, domain.NewFixtureChangedEvent(f))
	return f, nil
}

// Delete removes the fixture with key.
func (s *FixtureService) Delete(ctx context.Context, key uuid.UUID) error {
	if err := reconcile.DeleteByKey(ctx, s.store, repository.TableFixtures, repository.FixtureKeyCol, key); err != nil {
		return err
	}
	s.logger.Info("fixture deleted", "key", key)
	s.events.Publish(ctx, domain.NewFixtureDeletedEvent(key))
	return nil
}

// List returns every fixture in date order.
func (s *FixtureService) List(ctx context.Context) ([]domain.FixtureEntry, error) {
	fixtures, _, err := readTable(ctx, s.store, s.logger, repository.TableFixtures, repository.FixtureKeyCol, repository.DecodeFixture)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(fixtures, func(a, b domain.FixtureEntry) int { return a.Date.Compare(b.Date) })
	return fixtures, nil
}

// Opponents lists every distinct opponent from fixtures and played
// matches, case-insensitively deduplicated and sorted.
func (s *FixtureService) Opponents(ctx context.Context) ([]string, error) {
	fixtures, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	matches, _, err := readTable(ctx, s.store, s.logger, repository.TableMatches, repository.MatchKeyCol, repository.DecodeMatch)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		k := strings.ToLower(strings.TrimSpace(name))
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, strings.TrimSpace(name))
	}
	for _, f := range fixtures {
		add(f.Opponent)
	}
	for _, m := range matches {
		add(m.Opponent)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out, nil
}
