package report

import (
	"fmt"
	"strconv"

	"github.com/teamdesk/platform/internal/aggregate"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/layout"
)

// ResultsInput is the season's played matches and the scorer ranking.
type ResultsInput struct {
	Club     string
	Category string
	Results  []aggregate.MatchResult
	Record   aggregate.SeasonRecord
	Scorers  []domain.ScorerCount
}

func venueLabel(v domain.Venue) string {
	if v == domain.VenueAway {
		return "Away"
	}
	return "Home"
}

// ResultsSheet renders the match table, the season record and the scorer
// ranking.
func ResultsSheet(name string, in ResultsInput) Document {
	b := newBuilder(name, layout.Portrait)
	c := newCursor(b, dossierLeft, dossierWidth, layout.A4Long)

	b.in(SectionHeader)
	title := "RESULTS"
	if in.Club != "" {
		title += " - " + in.Club
	}
	if in.Category != "" {
		title += " - " + in.Category
	}
	b.cell(layout.Rect{X: c.left, Y: c.y, W: c.width, H: 12}, title, Style{Size: 18, Bold: true, TextColor: blue})
	c.ln(16)

	b.in(SectionBody)
	c.panel("MATCHES")
	head := Style{Size: 10, Bold: true, Fill: filled(lightGray), Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignCenter}
	cells := Style{Size: 10, Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignCenter}
	widths := []float64{30, 70, 40, 30, 20}
	end := c.table(widths, 8, []string{"DATE", "OPPONENT", "SCORE", "VENUE", "RES"}, head)
	if len(in.Results) == 0 {
		c.row([]float64{c.width}, 8, []string{"No matches recorded."}, cells)
	}
	for _, r := range in.Results {
		m := r.Match
		st := cells
		switch r.Result {
		case aggregate.Win:
			st.TextColor = darkGreen
		case aggregate.Loss:
			st.TextColor = darkRed
		}
		c.row(widths, 8, []string{
			m.Date.Format(domain.DateLayout),
			m.Opponent,
			fmt.Sprintf("%d - %d", m.GoalsFor, m.GoalsAgainst),
			venueLabel(m.Venue),
			string(r.Result),
		}, st)
	}
	end()
	c.ln(4)

	rec := in.Record
	c.ensure(8)
	b.cell(layout.Rect{X: c.left, Y: c.y, W: c.width, H: 8},
		fmt.Sprintf("Played %d  W %d  D %d  L %d  Goals %d:%d (%+d)  Corners %d:%d",
			rec.Played, rec.Won, rec.Drawn, rec.Lost, rec.GoalsFor, rec.GoalsAgainst, rec.GoalDifference(), rec.CornersFor, rec.CornersAgainst),
		Style{Size: 10, Bold: true, TextColor: black})
	c.ln(12)

	c.panel("SCORERS")
	widths = []float64{120, 30}
	end = c.table(widths, 8, []string{"PLAYER", "GOALS"}, head)
	if len(in.Scorers) == 0 {
		c.row(widths, 8, []string{Placeholder, Placeholder}, cells)
	}
	for _, s := range in.Scorers {
		c.row(widths, 8, []string{s.Name, strconv.Itoa(s.Goals)}, cells)
	}
	end()
	return b.document()
}
