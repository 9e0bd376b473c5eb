package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/layout"
)

// FormationInput is everything a formation sheet shows.
type FormationInput struct {
	Match      string
	Category   string
	Scheme     layout.Scheme
	Assignment domain.Assignment
	Absences   []domain.Absence
	Roster     domain.Roster
}

// PitchArea is where the pitch is drawn on a landscape page.
var PitchArea = layout.Rect{X: 15, Y: 30, W: 267, H: 130}

const (
	tokenSize   = 8.0
	nameBoxH    = 4.0
	nameSize    = 7.5
	listSpacing = "   |   "
)

// FormationSheet lays out the starting eleven on a pitch diagram with the
// substitutes and absentees listed below it.
func FormationSheet(name string, in FormationInput, generatedAt time.Time) Document {
	pw, ph := layout.PageSize(layout.Landscape)
	b := newBuilder(name, layout.Landscape)

	b.in(SectionHeader)
	b.rect(layout.Rect{W: pw, H: 18}, Style{Fill: filled(darkGray)})
	title := strings.ToUpper(fmt.Sprintf("%s | %s", in.Category, in.Match))
	b.cell(layout.Rect{Y: 5, W: pw, H: 8}, title, Style{Size: 14, Bold: true, TextColor: white, Align: AlignCenter})

	b.in(SectionBody)
	drawPitch(b, PitchArea)
	for _, tok := range layout.PlacePlayers(PitchArea, in.Scheme, in.Assignment, in.Roster) {
		fill := blue
		if tok.Goalkeeper {
			fill = red
		}
		b.ellipse(layout.Rect{X: tok.X - tokenSize/2, Y: tok.Y - tokenSize/2, W: tokenSize, H: tokenSize},
			Style{Fill: filled(fill), Stroke: white, LineWidth: 0.2})
		b.text(tok.X-1.5, tok.Y+1, tok.Label, Style{Size: 8, Bold: true, TextColor: white})

		w := layout.TextWidth(tok.Player, nameSize) + 4
		b.rect(layout.Rect{X: tok.X - w/2, Y: tok.Y + 5, W: w, H: nameBoxH}, Style{Fill: filled(black)})
		b.text(tok.X-w/2+2, tok.Y+8, tok.Player, Style{Size: nameSize, Bold: true, TextColor: white})
	}

	y := PitchArea.Y + PitchArea.H + 4
	var subs []string
	for i, p := range layout.Substitutes(in.Roster, in.Assignment, in.Absences) {
		subs = append(subs, fmt.Sprintf("%d. %s", i+1, p.DisplayName()))
	}
	b.in(SectionLegend)
	b.cell(layout.Rect{X: PitchArea.X, Y: y, W: PitchArea.W, H: 5}, "SUBSTITUTES:", Style{Size: 10, Bold: true, TextColor: black})
	b.cell(layout.Rect{X: PitchArea.X, Y: y + 5, W: PitchArea.W, H: 4}, joinOrPlaceholder(subs), Style{Size: 9, TextColor: black})

	var absent []string
	for _, a := range layout.Absentees(in.Roster, in.Absences) {
		if a.Reason != "" {
			absent = append(absent, fmt.Sprintf("%s (%s)", a.Name, a.Reason))
		} else {
			absent = append(absent, a.Name)
		}
	}
	b.cell(layout.Rect{X: PitchArea.X, Y: y + 10, W: PitchArea.W, H: 5}, "ABSENT:", Style{Size: 10, Bold: true, TextColor: darkRed})
	b.cell(layout.Rect{X: PitchArea.X, Y: y + 15, W: PitchArea.W, H: 4}, joinOrPlaceholder(absent), Style{Size: 9, TextColor: black})

	b.in(SectionFooter)
	b.cell(layout.Rect{X: 10, Y: ph - 12, W: pw - 20, H: 10},
		"Sheet generated on: "+generatedAt.Format("02/01/2006 15:04"),
		Style{Size: 8, Italic: true, TextColor: midGray, Align: AlignRight})
	return b.document()
}

func joinOrPlaceholder(items []string) string {
	if len(items) == 0 {
		return Placeholder
	}
	return strings.Join(items, listSpacing)
}

// drawPitch draws the field markings inside area.
func drawPitch(b *builder, area layout.Rect) {
	markings := Style{Stroke: white, LineWidth: 0.6}
	b.rect(area, Style{Fill: filled(green)})
	b.rect(area, markings)
	for _, f := range []float64{0.25, 0.5, 0.75} {
		x := area.X + area.W*f
		b.line(x, area.Y, x, area.Y+area.H, markings)
	}
	c := area.Center()
	b.ellipse(layout.Rect{X: c.X - 1.5, Y: c.Y - 1.5, W: 3, H: 3}, Style{Fill: filled(white)})

	const circle = 45.0
	arcs := Style{Stroke: white, LineWidth: 0.7}
	for _, x := range []float64{area.X, area.X + area.W} {
		b.ellipse(layout.Rect{X: x - circle/2, Y: c.Y - circle/2, W: circle, H: circle}, arcs)
	}
	// mask the halves of the shooting circles that fall outside the pitch
	b.rect(layout.Rect{Y: area.Y, W: area.X - 0.1, H: area.H}, Style{Fill: filled(white)})
	b.rect(layout.Rect{X: area.X + area.W + 0.1, Y: area.Y, W: 30, H: area.H}, Style{Fill: filled(white)})
	b.rect(area, markings)

	goals := Style{Fill: filled(gray(130))}
	b.rect(layout.Rect{X: area.X - 3, Y: c.Y - 6, W: 3, H: 12}, goals)
	b.rect(layout.Rect{X: area.X + area.W, Y: c.Y - 6, W: 3, H: 12}, goals)
}
