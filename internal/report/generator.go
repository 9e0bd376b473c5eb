package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teamdesk/platform/internal/aggregate"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/layout"
	"github.com/teamdesk/platform/internal/projection"
	"github.com/teamdesk/platform/internal/service"
)

// Report kinds, also the artifact name prefixes.
const (
	ReportFormation = "formation"
	ReportDossier   = "dossier"
	ReportMonthly   = "monthly"
	ReportSquad     = "squad"
	ReportResults   = "results"
)

// ReportKinds lists every report kind.
var ReportKinds = []string{ReportFormation, ReportDossier, ReportMonthly, ReportSquad, ReportResults}

// Result is the outcome of one generation. Message carries the failure
// text when Success is false.
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Artifact string `json:"artifact,omitempty"`
}

// SnapshotSource loads the data a report is built from.
type SnapshotSource interface {
	Load(ctx context.Context) (service.Snapshot, error)
}

// GeneratorConfig holds the labels printed on every report.
type GeneratorConfig struct {
	Club     string
	Category string
}

// Generator builds reports from a fresh snapshot, replays them on the
// canvas and indexes the artifacts.
type Generator struct {
	snapshots SnapshotSource
	canvas    Canvas
	index     projection.Store
	events    service.EventPublisher
	cfg       GeneratorConfig
	logger    *slog.Logger
	now       func() time.Time

	// a canvas holds one document at a time
	renderMu sync.Mutex
}

// NewGenerator creates a Generator. A nil canvas is allowed; every
// generation then fails with a MissingCollaborator result.
func NewGenerator(snapshots SnapshotSource, canvas Canvas, index projection.Store, events service.EventPublisher, cfg GeneratorConfig, logger *slog.Logger) *Generator {
	return &Generator{
		snapshots: snapshots,
		canvas:    canvas,
		index:     index,
		events:    events,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func failure(err error) Result {
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Code != domain.CodeStoreUnavailable {
		return Result{Message: appErr.Message}
	}
	return Result{Message: err.Error()}
}

// run loads a snapshot, builds the document and persists it. Errors and
// panics become a failed Result.
func (g *Generator) run(ctx context.Context, kind, subject string, build func(snap service.Snapshot, name string) (Document, error)) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("report generation panicked", "kind", kind, "subject", subject, "panic", r)
			res = Result{Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	if g.canvas == nil {
		return failure(domain.ErrMissingCollaborator("document canvas"))
	}
	snap, err := g.snapshots.Load(ctx)
	if err != nil {
		g.logger.Error("load snapshot for report", "kind", kind, "error", err)
		return failure(err)
	}

	now := g.now()
	name := fmt.Sprintf("%s_%d", kind, now.Unix())
	if subject != "" {
		name = fmt.Sprintf("%s_%s_%d", kind, artifactSafe(subject), now.Unix())
	}
	doc, err := build(snap, name)
	if err != nil {
		return failure(err)
	}
	artifact, err := g.render(ctx, doc)
	if err != nil {
		g.logger.Error("render report", "kind", kind, "error", err)
		return failure(err)
	}

	if g.index != nil {
		a := projection.Artifact{Kind: kind, Subject: subject, Path: artifact, GeneratedAt: now.UTC()}
		if err := projection.RecordArtifact(ctx, g.index, a); err != nil {
			g.logger.Warn("index report artifact", "kind", kind, "error", err)
		}
	}
	g.events.Publish(ctx, domain.NewReportGeneratedEvent(kind, subject, artifact))
	g.logger.Info("report generated", "kind", kind, "subject", subject, "artifact", artifact, "pages", doc.Pages())
	return Result{Success: true, Message: "ready", Artifact: artifact}
}

func (g *Generator) render(ctx context.Context, doc Document) (string, error) {
	g.renderMu.Lock()
	defer g.renderMu.Unlock()
	return Replay(ctx, doc, g.canvas)
}

func artifactSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '-'
	}, s)
}

// FormationRequest selects the match, scheme and lineup of a formation
// sheet. FixtureKey, when set, takes the match label from the fixture list.
type FormationRequest struct {
	FixtureKey uuid.UUID
	Match      string
	Scheme     string
	Assignment domain.Assignment
	Absences   []domain.Absence
}

// Formation renders a lineup sheet.
func (g *Generator) Formation(ctx context.Context, req FormationRequest) Result {
	return g.run(ctx, ReportFormation, "", func(snap service.Snapshot, name string) (Document, error) {
		scheme, ok := layout.SchemeByName(req.Scheme)
		if !ok {
			return Document{}, domain.ErrValidation(fmt.Sprintf("unknown scheme %q", req.Scheme))
		}
		match := req.Match
		if req.FixtureKey != uuid.Nil {
			found := false
			for _, f := range snap.Fixtures {
				if f.Key == req.FixtureKey {
					match, found = f.Label(), true
					break
				}
			}
			if !found {
				return Document{}, domain.ErrNotFound("fixture", req.FixtureKey.String())
			}
		}
		return FormationSheet(name, FormationInput{
			Match:      match,
			Category:   g.cfg.Category,
			Scheme:     scheme,
			Assignment: req.Assignment,
			Absences:   req.Absences,
			Roster:     snap.Roster,
		}, g.now()), nil
	})
}

// Dossier renders one player's season sheet.
func (g *Generator) Dossier(ctx context.Context, nationalID string, year int) Result {
	return g.run(ctx, ReportDossier, nationalID, func(snap service.Snapshot, name string) (Document, error) {
		p, ok := snap.Roster.Find(nationalID)
		if !ok {
			return Document{}, domain.ErrNotFound("player", nationalID)
		}
		return PlayerDossier(name, DossierInput{
			Player:     p,
			Year:       year,
			Category:   g.cfg.Category,
			Attendance: aggregate.AttendanceRollup(snap.Attendance, nationalID, year, aggregate.TrainingOnly),
			Skills:     aggregate.SkillRollup(snap.Evaluations, nationalID, year),
			Goals:      aggregate.PlayerGoals(matchesIn(snap.Matches, year), p),
		}, g.now()), nil
	})
}

// Monthly renders the attendance grid of a month.
func (g *Generator) Monthly(ctx context.Context, year int, month time.Month) Result {
	period := domain.Period{Year: year, Month: month}
	return g.run(ctx, ReportMonthly, period.String(), func(snap service.Snapshot, name string) (Document, error) {
		if err := domain.ValidatePeriod(period); err != nil {
			return Document{}, domain.ErrValidation(err.Error())
		}
		grid := layout.BuildMonthGrid(snap.Roster, snap.Attendance, year, month, layout.DefaultGridGeometry)
		return MonthlyAttendanceSheet(name, g.cfg.Category, grid, layout.DefaultGridGeometry), nil
	})
}

// Squad renders the composite table of every roster player.
func (g *Generator) Squad(ctx context.Context, year int) Result {
	return g.run(ctx, ReportSquad, fmt.Sprint(year), func(snap service.Snapshot, name string) (Document, error) {
		rows := aggregate.PlayerSummaries(snap.Roster, snap.Attendance, snap.Evaluations, year)
		return SquadSummarySheet(name, g.cfg.Category, year, rows), nil
	})
}

// Results renders the match results and scorer ranking.
func (g *Generator) Results(ctx context.Context) Result {
	return g.run(ctx, ReportResults, "", func(snap service.Snapshot, name string) (Document, error) {
		results, record := aggregate.MatchResults(snap.Matches)
		return ResultsSheet(name, ResultsInput{
			Club:     g.cfg.Club,
			Category: g.cfg.Category,
			Results:  results,
			Record:   record,
			Scorers:  aggregate.GoalRanking(snap.Matches),
		}), nil
	})
}

// Latest returns the most recent artifact of kind and subject.
func (g *Generator) Latest(ctx context.Context, kind, subject string) (*projection.Artifact, error) {
	if g.index == nil {
		return nil, domain.ErrNotFound("report", kind)
	}
	return projection.LatestArtifact(ctx, g.index, kind, subject)
}

func matchesIn(matches []domain.MatchRecord, year int) []domain.MatchRecord {
	var out []domain.MatchRecord
	for _, m := range matches {
		if m.Date.Year() == year {
			out = append(out, m)
		}
	}
	return out
}
