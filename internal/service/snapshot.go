package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/repository"
)

// Snapshot is every table read once. Aggregation and layout work on a
// snapshot only, so a report never mixes two store states.
type Snapshot struct {
	Roster      domain.Roster            `json:"roster"`
	Attendance  []domain.AttendanceEvent `json:"attendance"`
	Evaluations []domain.SkillEvaluation `json:"evaluations"`
	Matches     []domain.MatchRecord     `json:"matches"`
	Fixtures    []domain.FixtureEntry    `json:"fixtures"`
	Malformed   int                      `json:"malformed"`
	LoadedAt    time.Time                `json:"loaded_at"`
}

// SnapshotLoader reads snapshots from the store.
type SnapshotLoader struct {
	store  repository.TableStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSnapshotLoader creates a SnapshotLoader.
func NewSnapshotLoader(store repository.TableStore, logger *slog.Logger) *SnapshotLoader {
	return &SnapshotLoader{store: store, logger: logger, now: time.Now}
}

// readTable reads and decodes one table. Malformed rows are logged and
// skipped; keyCol >= 0 fills legacy keys before decoding.
func readTable[T any](ctx context.Context, store repository.TableStore, logger *slog.Logger, table string, keyCol int, decode func(repository.Row) (T, error)) ([]T, int, error) {
	rows, err := store.ReadAll(ctx, table)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", table, err)
	}
	if keyCol >= 0 {
		rows, _ = repository.WithKeys(table, rows, keyCol)
	}
	out, errs := repository.DecodeAll(table, rows, decode)
	for _, e := range errs {
		logger.Warn("skipping malformed row", "table", table, "error", e)
	}
	return out, len(errs), nil
}

// Load reads every table.
func (l *SnapshotLoader) Load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{LoadedAt: l.now().UTC()}
	var n int
	var err error

	players, n, err := readTable(ctx, l.store, l.logger, repository.TablePlayers, -1, repository.DecodePlayer)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Roster = domain.Roster(players)
	snap.Malformed += n

	if snap.Attendance, n, err = readTable(ctx, l.store, l.logger, repository.TableAttendance, -1, repository.DecodeAttendance); err != nil {
		return Snapshot{}, err
	}
	snap.Malformed += n

	if snap.Evaluations, n, err = readTable(ctx, l.store, l.logger, repository.TableEvaluations, -1, repository.DecodeEvaluation); err != nil {
		return Snapshot{}, err
	}
	snap.Malformed += n

	if snap.Matches, n, err = readTable(ctx, l.store, l.logger, repository.TableMatches, repository.MatchKeyCol, repository.DecodeMatch); err != nil {
		return Snapshot{}, err
	}
	snap.Malformed += n

	if snap.Fixtures, n, err = readTable(ctx, l.store, l.logger, repository.TableFixtures, repository.FixtureKeyCol, repository.DecodeFixture); err != nil {
		return Snapshot{}, err
	}
	snap.Malformed += n

	l.logger.Debug("snapshot loaded",
		"players", len(snap.Roster),
		"attendance", len(snap.Attendance),
		"evaluations", len(snap.Evaluations),
		"matches", len(snap.Matches),
		"fixtures", len(snap.Fixtures),
		"malformed", snap.Malformed,
	)
	return snap, nil
}

func loadRoster(ctx context.Context, store repository.TableStore, logger *slog.Logger) (domain.Roster, error) {
	players, _, err := readTable(ctx, store, logger, repository.TablePlayers, -1, repository.DecodePlayer)
	if err != nil {
		return nil, err
	}
	return domain.Roster(players), nil
}
