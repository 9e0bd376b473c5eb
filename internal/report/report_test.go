package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdesk/platform/internal/aggregate"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/layout"
	"github.com/teamdesk/platform/internal/projection"
	"github.com/teamdesk/platform/internal/repository"
	"github.com/teamdesk/platform/internal/service"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// memCanvas counts drawing calls and remembers saved names.
type memCanvas struct {
	pages int
	calls int
	saved []string
	fail  error
	boom  bool
}

func (c *memCanvas) NewPage(layout.Orientation) { c.pages++ }
func (c *memCanvas) Rect(layout.Rect, Style)     { c.calls++ }
func (c *memCanvas) Line(_, _, _, _ float64, _ Style) {
	c.calls++
}
func (c *memCanvas) Ellipse(layout.Rect, Style) { c.calls++ }
func (c *memCanvas) Text(_, _ float64, _ string, _ Style) {
	if c.boom {
		panic("font table corrupt")
	}
	c.calls++
}
func (c *memCanvas) Cell(layout.Rect, string, Style) { c.calls++ }
func (c *memCanvas) Save(_ context.Context, name string) (string, error) {
	if c.fail != nil {
		return "", c.fail
	}
	c.saved = append(c.saved, name)
	return "/" + name, nil
}

type failingSource struct{ err error }

func (f failingSource) Load(context.Context) (service.Snapshot, error) {
	return service.Snapshot{}, f.err
}

type recordingPublisher struct{ events []domain.EventDraft }

func (p *recordingPublisher) Publish(_ context.Context, d domain.EventDraft) {
	p.events = append(p.events, d)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// cellAfter returns the text n text cells after the first cell equal to label.
func cellAfter(t *testing.T, doc Document, label string, n int) string {
	t.Helper()
	texts := doc.Texts()
	i := slices.Index(texts, label)
	require.GreaterOrEqual(t, i, 0, "label %q not found", label)
	require.Less(t, i+n, len(texts))
	return texts[i+n]
}

func testRoster() domain.Roster {
	return domain.Roster{
		{FirstName: "Ana", LastName: "Ruiz", NationalID: "p1001", Active: true, BirthDate: "10/05/2008", Jersey: "1"},
		{FirstName: "Bea", LastName: "Sanz", NationalID: "p1002", Active: true},
		{FirstName: "Carla", LastName: "Toro", NationalID: "p1003", Active: true},
	}
}

// seededStore holds the roster and a March 2024 in which p1001 was present
// at 8 trainings and absent from 2, while p1002 has no records.
func seededStore(t *testing.T) repository.TableStore {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, repository.EnsureSchema(ctx, store))
	for _, p := range testRoster() {
		require.NoError(t, store.AppendRows(ctx, repository.TablePlayers, []repository.Row{repository.EncodePlayer(p)}))
	}
	var rows []repository.Row
	for d := 1; d <= 10; d++ {
		st := domain.StatusPresent
		if d > 8 {
			st = domain.StatusAbsent
		}
		obs := ""
		if d == 5 {
			obs = "rain"
		}
		rows = append(rows, repository.EncodeAttendance(domain.AttendanceEvent{
			Date: day(2024, 3, d), NationalID: "p1001", Status: st, Session: domain.SessionTraining, Observation: obs,
		}))
	}
	rows = append(rows, repository.EncodeAttendance(domain.AttendanceEvent{
		Date: day(2024, 3, 16), NationalID: "p1001", Status: domain.StatusAbsent, Session: domain.SessionMatch,
	}))
	require.NoError(t, store.AppendRows(ctx, repository.TableAttendance, rows))
	require.NoError(t, store.AppendRows(ctx, repository.TableEvaluations, []repository.Row{
		repository.EncodeEvaluation(domain.SkillEvaluation{Period: domain.Period{Year: 2024, Month: 3}, NationalID: "p1001", Scores: domain.Scores{6, 7, 8, 9, 10, 5, 4}}),
	}))
	require.NoError(t, store.AppendRows(ctx, repository.TableMatches, []repository.Row{
		repository.EncodeMatch(domain.MatchRecord{Date: day(2024, 3, 16), Opponent: "Lions", Venue: domain.VenueHome, GoalsFor: 3, GoalsAgainst: 1, ScorerTally: "Ana Ruiz (2), Bea Sanz (1)"}),
	}))
	return store
}

func newGenerator(t *testing.T, c Canvas) (*Generator, *projection.InMemoryStore, *recordingPublisher) {
	t.Helper()
	index := projection.NewInMemoryStore()
	pub := &recordingPublisher{}
	g := NewGenerator(service.NewSnapshotLoader(seededStore(t), testLogger), c, index, pub,
		GeneratorConfig{Club: "Club Atlético", Category: "U16"}, testLogger)
	g.now = func() time.Time { return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC) }
	return g, index, pub
}

func TestCleanText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"Ñandú Peña", "Ñandú Peña"},
		{"Łucja", "?ucja"},
		{"goal ⚽", "goal ?"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.in))
		})
	}
}

func TestFormationSheet(t *testing.T) {
	scheme, _ := layout.SchemeByName("4-3-3")
	doc := FormationSheet("formation_1", FormationInput{
		Match:      "06/04/2024 vs Lions (home)",
		Category:   "u16",
		Scheme:     scheme,
		Assignment: domain.Assignment{layout.SlotGoalkeeper: "p1001"},
		Absences:   []domain.Absence{{NationalID: "p1003", Reason: "injured"}},
		Roster:     testRoster(),
	}, time.Date(2024, 4, 5, 18, 30, 0, 0, time.UTC))

	assert.Equal(t, layout.Landscape, doc.Orientation)
	assert.Equal(t, 1, doc.Pages())
	texts := doc.Texts()
	assert.Contains(t, texts, "U16 | 06/04/2024 VS LIONS (HOME)")
	assert.Contains(t, texts, "Ana Ruiz")
	assert.Contains(t, texts, "1. Bea Sanz")
	assert.Contains(t, texts, "Carla Toro (injured)")
	assert.Contains(t, texts, "Sheet generated on: 05/04/2024 18:30")

	var keeper int
	for _, in := range doc.Instructions {
		if in.Kind == KindEllipse && in.Style.Fill != nil && *in.Style.Fill == red {
			keeper++
		}
	}
	assert.Equal(t, 1, keeper)

	empty := FormationSheet("formation_2", FormationInput{Scheme: scheme, Roster: testRoster()}, time.Now())
	assert.Equal(t, Placeholder, cellAfter(t, empty, "ABSENT:", 1))
}

func TestPlayerDossier(t *testing.T) {
	var events []domain.AttendanceEvent
	for d := 1; d <= 10; d++ {
		st := domain.StatusPresent
		if d > 8 {
			st = domain.StatusAbsent
		}
		events = append(events, domain.AttendanceEvent{Date: day(2024, 3, d), NationalID: "p1001", Status: st, Session: domain.SessionTraining})
	}
	p := testRoster()[0]
	doc := PlayerDossier("dossier_p1001_1", DossierInput{
		Player:     p,
		Year:       2024,
		Category:   "U16",
		Attendance: aggregate.AttendanceRollup(events, "p1001", 2024, aggregate.TrainingOnly),
		Skills:     aggregate.SkillSummary{NationalID: "p1001", Year: 2024},
		Goals:      2,
	}, day(2024, 6, 1))

	assert.Equal(t, layout.Portrait, doc.Orientation)
	texts := doc.Texts()
	assert.Contains(t, texts, "ANA RUIZ")
	assert.Contains(t, texts, "10/05/2008 (16 years)")
	assert.Contains(t, texts, "No evaluations recorded this year.")
	assert.Contains(t, texts, "Goals scored this season: 2")
	assert.Equal(t, "80%", cellAfter(t, doc, "March", 3))
	assert.Equal(t, "80%", cellAfter(t, doc, "YEAR TOTAL", 3))
	assert.NotContains(t, texts, "January", "months without sessions are skipped")

	none := PlayerDossier("dossier_p1002_1", DossierInput{Player: testRoster()[1], Year: 2024}, day(2024, 6, 1))
	assert.Equal(t, "0", cellAfter(t, none, "YEAR TOTAL", 1))
	assert.Equal(t, Placeholder, cellAfter(t, none, "YEAR TOTAL", 3), "undefined effectiveness must not print 0%")
}

func TestMonthlyAttendanceSheet(t *testing.T) {
	roster := testRoster()
	events := []domain.AttendanceEvent{
		{Date: day(2024, 2, 1), NationalID: "p1001", Status: domain.StatusPresent, Session: domain.SessionTraining},
		{Date: day(2024, 2, 1), NationalID: "p1002", Status: domain.StatusAbsent, Session: domain.SessionTraining, Observation: "cold"},
		{Date: day(2024, 2, 2), NationalID: "p1001", Status: domain.StatusSuspended, Session: domain.SessionSuspended},
	}
	geom := layout.DefaultGridGeometry
	grid := layout.BuildMonthGrid(roster, events, 2024, time.February, geom)
	doc := MonthlyAttendanceSheet("monthly_2_1", "u16", grid, geom)

	texts := doc.Texts()
	assert.Equal(t, "ATTENDANCE - FEBRUARY 2024 - U16", texts[0])
	assert.Contains(t, texts, "29")
	assert.NotContains(t, texts, "30")
	assert.Contains(t, texts, "- Day 1: cold")
	assert.Equal(t, "P", cellAfter(t, doc, "Ruiz Ana", 1))
	assert.Equal(t, "S", cellAfter(t, doc, "Ruiz Ana", 2))
	assert.Equal(t, "A", cellAfter(t, doc, "Sanz Bea", 1))

	var pinkHeaders int
	for _, in := range doc.Instructions {
		if in.Kind == KindCell && in.Section == SectionHeader && in.Style.Fill != nil && *in.Style.Fill == pink {
			pinkHeaders++
		}
	}
	assert.Equal(t, 2, pinkHeaders, "day number and weekday of the suspended day")

	t.Run("long roster spills onto more pages", func(t *testing.T) {
		var big domain.Roster
		for i := 0; i < 40; i++ {
			big = append(big, domain.Player{FirstName: "P", LastName: fmt.Sprint(i), NationalID: fmt.Sprintf("id%02d", i), Active: true})
		}
		g := layout.BuildMonthGrid(big, nil, 2024, time.March, geom)
		doc := MonthlyAttendanceSheet("monthly_3_1", "", g, geom)
		assert.Equal(t, 2, doc.Pages())
		assert.Equal(t, "ATTENDANCE - MARCH 2024", doc.Texts()[0])
		for _, in := range doc.Instructions {
			assert.LessOrEqual(t, in.Y+in.H, layout.A4Short, "instruction off page: %+v", in)
		}
	})
}

func TestResultsAndSquadSheets(t *testing.T) {
	matches := []domain.MatchRecord{
		{Date: day(2024, 3, 16), Opponent: "Lions", Venue: domain.VenueHome, GoalsFor: 3, GoalsAgainst: 1, ScorerTally: "Ana Ruiz (2), Bea Sanz (1)"},
		{Date: day(2024, 3, 9), Opponent: "Tigers", Venue: domain.VenueAway, GoalsFor: 0, GoalsAgainst: 2},
	}
	results, record := aggregate.MatchResults(matches)
	doc := ResultsSheet("results_1", ResultsInput{Club: "Club", Results: results, Record: record, Scorers: aggregate.GoalRanking(matches)})

	assert.Equal(t, "Tigers", cellAfter(t, doc, "09/03/2024", 1))
	assert.Equal(t, "0 - 2", cellAfter(t, doc, "09/03/2024", 2))
	assert.Equal(t, "L", cellAfter(t, doc, "09/03/2024", 4))
	assert.Equal(t, "2", cellAfter(t, doc, "Ana Ruiz", 1))
	assert.Contains(t, doc.Texts(), "Played 2  W 1  D 0  L 1  Goals 3:3 (+0)  Corners 0:0")

	summaries := aggregate.PlayerSummaries(testRoster(), nil, nil, 2024)
	squad := SquadSummarySheet("squad_2024_1", "U16", 2024, summaries)
	assert.Equal(t, "0.0", cellAfter(t, squad, "Toro Carla", 3))
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("dossier end to end", func(t *testing.T) {
		c := &memCanvas{}
		g, index, pub := newGenerator(t, c)

		res := g.Dossier(ctx, "p1001", 2024)
		require.True(t, res.Success, res.Message)
		assert.Equal(t, "/dossier_p1001_1711972800", res.Artifact)
		assert.Equal(t, 1, c.pages)

		latest, err := g.Latest(ctx, ReportDossier, "p1001")
		require.NoError(t, err)
		assert.Equal(t, res.Artifact, latest.Path)
		_, err = index.Get(ctx, "projection:report:dossier:p1001")
		require.NoError(t, err)

		require.Len(t, pub.events, 1)
		assert.Equal(t, domain.EventReportGenerated, pub.events[0].EventType)
	})

	t.Run("every report kind renders", func(t *testing.T) {
		c := &memCanvas{}
		g, _, _ := newGenerator(t, c)
		for _, res := range []Result{
			g.Formation(ctx, FormationRequest{Scheme: "Double Pivot", Match: "Friendly", Assignment: domain.Assignment{layout.SlotLibero: "p1002"}}),
			g.Monthly(ctx, 2024, time.March),
			g.Squad(ctx, 2024),
			g.Results(ctx),
		} {
			assert.True(t, res.Success, res.Message)
		}
		assert.Equal(t, []string{"formation_1711972800", "monthly_2024-03_1711972800", "squad_2024_1711972800", "results_1711972800"}, c.saved)
	})

	t.Run("same month of different years", func(t *testing.T) {
		c := &memCanvas{}
		g, _, _ := newGenerator(t, c)
		a := g.Monthly(ctx, 2023, time.March)
		b := g.Monthly(ctx, 2024, time.March)
		require.True(t, a.Success, a.Message)
		require.True(t, b.Success, b.Message)
		assert.NotEqual(t, a.Artifact, b.Artifact)
		assert.Equal(t, []string{"monthly_2023-03_1711972800", "monthly_2024-03_1711972800"}, c.saved)

		latest, err := g.Latest(ctx, ReportMonthly, "2023-03")
		require.NoError(t, err)
		assert.Equal(t, a.Artifact, latest.Path)
	})

	t.Run("unknown player", func(t *testing.T) {
		g, _, pub := newGenerator(t, &memCanvas{})
		res := g.Dossier(ctx, "nobody", 2024)
		assert.False(t, res.Success)
		assert.Equal(t, "player nobody not found", res.Message)
		assert.Empty(t, pub.events)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		g, _, _ := newGenerator(t, &memCanvas{})
		res := g.Formation(ctx, FormationRequest{Scheme: "2-3-5"})
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "unknown scheme")
	})

	t.Run("missing canvas", func(t *testing.T) {
		g, _, _ := newGenerator(t, nil)
		res := g.Results(ctx)
		assert.False(t, res.Success)
		assert.Equal(t, "cannot render: document canvas unavailable", res.Message)
	})

	t.Run("store unavailable message is passed through", func(t *testing.T) {
		storeErr := domain.ErrStoreUnavailable("read players", errors.New("quota exceeded"))
		g := NewGenerator(failingSource{err: storeErr}, &memCanvas{}, nil, service.NopPublisher{}, GeneratorConfig{}, testLogger)
		res := g.Squad(ctx, 2024)
		assert.False(t, res.Success)
		assert.Equal(t, storeErr.Error(), res.Message)
	})

	t.Run("canvas failures and panics become results", func(t *testing.T) {
		g, _, _ := newGenerator(t, &memCanvas{fail: errors.New("disk full")})
		res := g.Results(ctx)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "disk full")

		g, _, _ = newGenerator(t, &memCanvas{boom: true})
		res = g.Formation(ctx, FormationRequest{Scheme: "4-3-3", Assignment: domain.Assignment{layout.SlotGoalkeeper: "p1001"}})
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "font table corrupt")
	})

	t.Run("latest without a generation", func(t *testing.T) {
		g, _, _ := newGenerator(t, &memCanvas{})
		_, err := g.Latest(ctx, ReportMonthly, "2024-03")
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	})
}
