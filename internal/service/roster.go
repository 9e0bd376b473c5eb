package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/reconcile"
	"github.com/teamdesk/platform/internal/repository"
)

// RosterService edits the players table.
type RosterService struct {
	store  repository.TableStore
	events EventPublisher
	logger *slog.Logger
}

// NewRosterService creates a RosterService.
func NewRosterService(store repository.TableStore, events EventPublisher, logger *slog.Logger) *RosterService {
	return &RosterService{store: store, events: events, logger: logger}
}

var playerSpan = reconcile.Span{FirstColumn: 0, Width: repository.PlayerColumns}

// Save overwrites the row of originalNationalID with p, or appends p when
// no row has that id. An empty originalNationalID means p.NationalID, so a
// new player whose id already exists updates that row.
func (s *RosterService) Save(ctx context.Context, p domain.Player, originalNationalID string) (domain.Player, bool, error) {
	p.NationalID = strings.TrimSpace(p.NationalID)
	if err := domain.ValidateNationalID(p.NationalID); err != nil {
		return domain.Player{}, false, domain.ErrValidation(err.Error())
	}
	if strings.TrimSpace(p.FirstName) == "" && strings.TrimSpace(p.LastName) == "" {
		return domain.Player{}, false, domain.ErrValidation("player name is required")
	}
	lookup := strings.TrimSpace(originalNationalID)
	if lookup == "" {
		lookup = p.NationalID
	}

	row := repository.EncodePlayer(p)
	match := func(r repository.Row) bool {
		return r.Cell(repository.PlayerNationalIDCol) == lookup
	}
	out, err := reconcile.FindOrAppend(ctx, s.store, repository.TablePlayers, match, playerSpan, row, row)
	if err != nil {
		return domain.Player{}, false, err
	}
	if out.Duplicates > 0 {
		s.logger.Warn("duplicate player rows",
			"error", domain.ErrAmbiguousMatch(repository.TablePlayers, lookup, out.Duplicates+1),
			"position", out.Position,
		)
	}
	s.logger.Info("player saved", "national_id", p.NationalID, "created", out.Created)
	s.events.Publish(ctx, domain.NewPlayerSavedEvent(p, out.Created))
	return p, out.Created, nil
}

// List returns the roster in store order.
func (s *RosterService) List(ctx context.Context) (domain.Roster, error) {
	return loadRoster(ctx, s.store, s.logger)
}
