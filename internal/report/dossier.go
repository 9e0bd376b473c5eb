package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teamdesk/platform/internal/aggregate"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/layout"
)

// DossierInput is the aggregated season of one player.
type DossierInput struct {
	Player     domain.Player
	Year       int
	Category   string
	Attendance aggregate.AttendanceSummary
	Skills     aggregate.SkillSummary
	Goals      int
}

const (
	dossierLeft  = 10.0
	dossierWidth = layout.A4Short - 2*dossierLeft
)

// PlayerDossier renders a player's personal data, monthly skill scores
// with season averages, training attendance and goals.
func PlayerDossier(name string, in DossierInput, now time.Time) Document {
	b := newBuilder(name, layout.Portrait)
	c := newCursor(b, dossierLeft, dossierWidth, layout.A4Long)
	p := in.Player

	b.in(SectionHeader)
	b.cell(layout.Rect{X: dossierLeft, Y: c.y, W: dossierWidth, H: 5},
		fmt.Sprintf("SEASON %d  -  CATEGORY: %s", in.Year, strings.ToUpper(in.Category)),
		Style{Size: 10, Bold: true, TextColor: gray(100), Align: AlignRight})
	c.ln(10)
	b.cell(layout.Rect{X: c.left, Y: c.y, W: c.width, H: 15}, strings.ToUpper(p.DisplayName()),
		Style{Size: 24, Bold: true, TextColor: blue, Align: AlignCenter})
	c.ln(20)

	b.in(SectionBody)
	c.panel("PERSONAL DATA")
	birth := orPlaceholder(p.BirthDate)
	if age, ok := p.Age(now); ok {
		birth = fmt.Sprintf("%s (%d years)", p.BirthDate, age)
	}
	for _, kv := range [][2]string{
		{"Date of birth:", birth},
		{"National ID:", p.NationalID},
		{"Jersey:", orPlaceholder(p.Jersey)},
		{"Position:", orPlaceholder(p.Position)},
		{"Phone:", orPlaceholder(p.Phone)},
	} {
		c.ensure(8)
		b.cell(layout.Rect{X: dossierLeft, Y: c.y, W: 50, H: 8}, "  "+kv[0], Style{Size: 11, Bold: true, TextColor: black})
		b.cell(layout.Rect{X: dossierLeft + 50, Y: c.y, W: dossierWidth - 50, H: 8}, kv[1], Style{Size: 11, TextColor: black})
		c.ln(8)
	}
	c.ln(8)

	c.panel("SKILL PROGRESS (MONTH BY MONTH)")
	widths := []float64{25}
	header := []string{"MONTH"}
	for _, n := range domain.SkillNames() {
		widths = append(widths, 20)
		header = append(header, truncate(n, 9))
	}
	grid := Style{Size: 9, Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignCenter}
	bold := grid
	bold.Bold = true
	endSkills := c.table(widths, 8, header, bold)
	if in.Skills.Evaluated == 0 {
		c.ensure(8)
		b.cell(layout.Rect{X: dossierLeft, Y: c.y, W: dossierWidth, H: 8}, "No evaluations recorded this year.", grid)
		c.ln(8)
	} else {
		for _, m := range in.Skills.Months {
			texts := []string{m.Month.String()}
			for _, v := range m.Scores {
				texts = append(texts, strconv.Itoa(v))
			}
			c.row(widths, 8, texts, grid)
		}
		total := bold
		total.Fill = filled(totalBlue)
		texts := []string{"SEASON"}
		for _, v := range in.Skills.Averages {
			texts = append(texts, strconv.FormatFloat(v, 'f', 1, 64))
		}
		c.row(widths, 8, texts, total)
	}
	endSkills()
	c.ln(8)

	c.panel("ATTENDANCE SUMMARY (TRAINING)")
	widths = []float64{40, 40, 40, 40}
	endAttendance := c.table(widths, 8, []string{"MONTH", "PRESENT", "ABSENT", "% EFFECTIVENESS"},
		Style{Size: 10, Bold: true, Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignCenter})
	cells := Style{Size: 10, Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignCenter}
	for _, m := range in.Attendance.Months {
		if m.Present+m.Absent == 0 {
			continue
		}
		c.row(widths, 8, []string{m.Month.String(), strconv.Itoa(m.Present), strconv.Itoa(m.Absent), m.Effectiveness.Format(Placeholder)}, cells)
	}
	t := in.Attendance.Total
	annual := cells
	annual.Bold = true
	annual.Fill = filled(gray(250))
	c.row(widths, 8, []string{"YEAR TOTAL", strconv.Itoa(t.Present), strconv.Itoa(t.Absent), t.Effectiveness.Format(Placeholder)}, annual)
	endAttendance()
	c.ln(8)

	c.panel("GOALS")
	c.ensure(10)
	b.cell(layout.Rect{X: dossierLeft, Y: c.y, W: dossierWidth, H: 10},
		fmt.Sprintf("Goals scored this season: %d", in.Goals), Style{Size: 12, TextColor: black})

	b.in(SectionFooter)
	b.cell(layout.Rect{X: dossierLeft, Y: layout.A4Long - 15, W: dossierWidth, H: 10},
		fmt.Sprintf("Page %d", b.page), Style{Size: 8, Italic: true, TextColor: gray(128)})
	return b.document()
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
