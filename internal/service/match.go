package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/guard"
	"github.com/teamdesk/platform/internal/reconcile"
	"github.com/teamdesk/platform/internal/repository"
)

// MatchInput is a played match as entered after the final whistle. Scorers
// keep their entry order in the stored tally.
type MatchInput struct {
	IdempotencyKey string               `json:"-"`
	Date           time.Time            `json:"date"`
	Opponent       string               `json:"opponent"`
	Venue          domain.Venue         `json:"venue"`
	GoalsFor       int                  `json:"goals_for"`
	GoalsAgainst   int                  `json:"goals_against"`
	CornersFor     int                  `json:"corners_for"`
	CornersAgainst int                  `json:"corners_against"`
	Scorers        []domain.ScorerCount `json:"scorers"`
}

// MatchService records played matches.
type MatchService struct {
	store  repository.TableStore
	idem   *guard.IdempotencyGuard
	events EventPublisher
	logger *slog.Logger
	newKey func() uuid.UUID
}

// NewMatchService creates a MatchService.
func NewMatchService(store repository.TableStore, idem *guard.IdempotencyGuard, events EventPublisher, logger *slog.Logger) *MatchService {
	return &MatchService{store: store, idem: idem, events: events, logger: logger, newKey: uuid.New}
}

// Record appends a match with a fresh key. A repeated idempotency key is
// rejected so a resubmitted form cannot write the match twice.
func (s *MatchService) Record(ctx context.Context, in MatchInput) (domain.MatchRecord, error) {
	if in.Date.IsZero() {
		return domain.MatchRecord{}, domain.ErrValidation("date is required")
	}
	if strings.TrimSpace(in.Opponent) == "" {
		return domain.MatchRecord{}, domain.ErrValidation("opponent is required")
	}
	if !in.Venue.Valid() {
		return domain.MatchRecord{}, domain.ErrValidation("venue must be home or away")
	}
	if in.GoalsFor < 0 || in.GoalsAgainst < 0 || in.CornersFor < 0 || in.CornersAgainst < 0 {
		return domain.MatchRecord{}, domain.ErrValidation("counts cannot be negative")
	}

	if res := s.idem.Check(ctx, in.IdempotencyKey); !res.Allowed {
		return domain.MatchRecord{}, domain.ErrValidation(res.Reason)
	}

	m := domain.MatchRecord{
		Key:            s.newKey(),
		Date:           domain.Day(in.Date),
		Opponent:       strings.TrimSpace(in.Opponent),
		Venue:          in.Venue,
		GoalsFor:       in.GoalsFor,
		GoalsAgainst:   in.GoalsAgainst,
		CornersFor:     in.CornersFor,
		CornersAgainst: in.CornersAgainst,
		ScorerTally:    domain.FormatTally(in.Scorers),
	}
	if err := s.store.AppendRows(ctx, repository.TableMatches, []repository.Row{repository.EncodeMatch(m)}); err != nil {
		s.idem.Remove(in.IdempotencyKey)
		return domain.MatchRecord{}, err
	}

	s.logger.Info("match recorded", "key", m.Key, "opponent", m.Opponent, "date", repository.FormatDate(m.Date))
	s.events.Publish(ctx, domain.NewMatchRecordedEvent(m))
	return m, nil
}

// Delete removes the match with key.
func (s *MatchService) Delete(ctx context.Context, key uuid.UUID) error {
	if err := reconcile.DeleteByKey(ctx, s.store, repository.TableMatches, repository.MatchKeyCol, key); err != nil {
		return err
	}
	s.logger.Info("match deleted", "key", key)
	s.events.Publish(ctx, domain.NewMatchDeletedEvent(key))
	return nil
}

// List returns every match in date order.
func (s *MatchService) List(ctx context.Context) ([]domain.MatchRecord, error) {
	matches, _, err := readTable(ctx, s.store, s.logger, repository.TableMatches, repository.MatchKeyCol, repository.DecodeMatch)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(matches, func(a, b domain.MatchRecord) int { return a.Date.Compare(b.Date) })
	return matches, nil
}

// MatchProgress compares played matches against the fixture list.
type MatchProgress struct {
	Played    int `json:"played"`
	Scheduled int `json:"scheduled"`
}

// Progress counts recorded matches and scheduled fixtures.
func (s *MatchService) Progress(ctx context.Context) (MatchProgress, error) {
	matches, err := s.List(ctx)
	if err != nil {
		return MatchProgress{}, err
	}
	fixtures, _, err := readTable(ctx, s.store, s.logger, repository.TableFixtures, repository.FixtureKeyCol, repository.DecodeFixture)
	if err != nil {
		return MatchProgress{}, err
	}
	return MatchProgress{Played: len(matches), Scheduled: len(fixtures)}, nil
}
