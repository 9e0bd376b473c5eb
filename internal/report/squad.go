package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teamdesk/platform/internal/aggregate"
	"github.com/teamdesk/platform/internal/layout"
)

// SquadSummarySheet renders one row per roster player with presence counts
// and season skill averages.
func SquadSummarySheet(name, category string, year int, rows []aggregate.PlayerSummary) Document {
	b := newBuilder(name, layout.Portrait)
	c := newCursor(b, dossierLeft, dossierWidth, layout.A4Long)

	b.in(SectionHeader)
	b.cell(layout.Rect{X: c.left, Y: c.y, W: c.width, H: 12},
		strings.TrimSpace(fmt.Sprintf("SQUAD SUMMARY %d %s", year, strings.ToUpper(category))),
		Style{Size: 18, Bold: true, TextColor: blue})
	c.ln(16)

	b.in(SectionBody)
	widths := []float64{70, 25, 25, 35, 35}
	head := Style{Size: 10, Bold: true, Fill: filled(lightGray), Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignCenter}
	end := c.table(widths, 8, []string{"PLAYER", "TRAIN.", "MATCH", "TECHNICAL", "PHYSICAL"}, head)
	for i, r := range rows {
		st := Style{Size: 10, Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignCenter}
		if i%2 == 1 {
			st.Fill = filled(gray(245))
		}
		c.row(widths, 7, []string{
			r.Player.SortName(),
			strconv.Itoa(r.Trainings),
			strconv.Itoa(r.Matches),
			strconv.FormatFloat(r.Technical, 'f', 1, 64),
			strconv.FormatFloat(r.Physical, 'f', 1, 64),
		}, st)
	}
	end()

	b.in(SectionLegend)
	c.ln(4)
	c.ensure(6)
	b.cell(layout.Rect{X: c.left, Y: c.y, W: c.width, H: 6},
		"Technical = average of Push, Dribbling, Flick, Hitting and Sweep. Physical = Physical score.",
		Style{Size: 8, Italic: true, TextColor: gray(100)})
	return b.document()
}
