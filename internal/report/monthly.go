package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/layout"
)

const (
	legendHeight = 15.0
	noteHeight   = 5.0
	pageMargin   = 10.0
)

// cellLetter is the mark shown in a grid cell.
func cellLetter(c layout.GridCell) (string, Color, bool) {
	switch {
	case c.Session == domain.SessionSuspended || c.Status == domain.StatusSuspended:
		return "S", black, false
	case c.Status == domain.StatusPresent:
		return "P", darkGreen, true
	case c.Status == domain.StatusAbsent:
		return "A", darkRed, true
	}
	return "", black, false
}

// MonthlyAttendanceSheet renders grid on landscape pages. The header rows
// repeat on every page; the legend and the observations follow the last
// row.
func MonthlyAttendanceSheet(name, category string, grid layout.MonthGrid, geom layout.GridGeometry) Document {
	pw, ph := layout.PageSize(layout.Landscape)
	b := newBuilder(name, layout.Landscape)

	title := fmt.Sprintf("ATTENDANCE - %s %d", strings.ToUpper(grid.Month.String()), grid.Year)
	if category != "" {
		title += " - " + strings.ToUpper(category)
	}

	pages := layout.Paginate(grid, geom, geom.RowsPerPage(ph-pageMargin))
	var bottom float64
	for i, rows := range pages {
		if i > 0 {
			b.in(SectionHeader).newPage()
		}
		b.in(SectionHeader)
		b.cell(layout.Rect{X: geom.Origin.X, Y: pageMargin, W: pw - 2*pageMargin, H: 12}, title,
			Style{Size: 18, Bold: true, TextColor: blue, Align: AlignLeft})
		gridHeader(b, grid)

		b.in(SectionBody)
		for n, r := range rows {
			gridRow(b, grid, r, n+1)
		}
		bottom = geom.Origin.Y + geom.RowHeight*float64(2+len(rows))
	}

	b.in(SectionLegend)
	y := bottom + 5
	if y+legendHeight > ph-pageMargin {
		b.newPage()
		y = pageMargin
	}
	b.cell(layout.Rect{X: geom.Origin.X, Y: y, W: 60, H: 6}, "LEGEND:", Style{Size: 10, Bold: true, TextColor: black})
	y += 6
	x := geom.Origin.X
	for _, l := range []struct {
		text  string
		w     float64
		color Color
	}{
		{"P = Present", 25, darkGreen},
		{"A = Absent", 25, darkRed},
		{"S = Suspended", 30, black},
	} {
		b.cell(layout.Rect{X: x, Y: y, W: l.w, H: 6}, l.text, Style{Size: 9, TextColor: l.color})
		x += l.w
	}
	for _, l := range []struct {
		text string
		fill Color
	}{
		{" Total trainings", skyBlue},
		{" Total matches", orange},
	} {
		b.rect(layout.Rect{X: x, Y: y, W: 5, H: 5}, Style{Fill: filled(l.fill), Stroke: black, LineWidth: 0.2})
		b.cell(layout.Rect{X: x + 5, Y: y, W: 35, H: 6}, l.text, Style{Size: 9, TextColor: black})
		x += 40
	}
	y += 9

	if len(grid.Notes) == 0 {
		return b.document()
	}
	b.cell(layout.Rect{X: geom.Origin.X, Y: y, W: 60, H: 6}, "OBSERVATIONS:", Style{Size: 10, Bold: true, TextColor: black})
	y += 6
	for _, note := range grid.Notes {
		if y+noteHeight > ph-pageMargin {
			b.newPage()
			y = pageMargin
		}
		b.cell(layout.Rect{X: geom.Origin.X, Y: y, W: pw - 2*pageMargin, H: noteHeight},
			fmt.Sprintf("- Day %d: %s", note.Day, note.Text), Style{Size: 9, TextColor: black})
		y += noteHeight
	}
	return b.document()
}

func gridHeader(b *builder, grid layout.MonthGrid) {
	head := Style{Size: 7, Bold: true, Fill: filled(lightGray), Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignCenter}
	b.cell(grid.NameHeader, "PLAYER", head)
	for _, d := range grid.Days {
		st := head
		if d.Suspended {
			st.Fill = filled(pink)
		}
		b.cell(d.Number, strconv.Itoa(d.Day), st)
		st.Size = 6
		b.cell(d.Letter, d.Weekday, st)
	}
	st := head
	st.Fill = filled(skyBlue)
	b.cell(grid.TrainingHead, "TRAIN.", st)
	st.Fill = filled(orange)
	b.cell(grid.MatchHead, "MATCH", st)
}

// gridRow draws one player line; n is the 1-based row number on the page
// and drives the alternate shading.
func gridRow(b *builder, grid layout.MonthGrid, r layout.GridRow, n int) {
	shade := white
	trainFill, matchFill := skyBlue, orange
	if n%2 == 0 {
		shade = gray(245)
		trainFill, matchFill = paleBlue, paleOrng
	}
	base := Style{Size: 8, Fill: filled(shade), Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignLeft}
	b.cell(r.Name, r.Player.SortName(), base)

	for i, c := range r.Cells {
		st := base
		st.Align = AlignCenter
		if i < len(grid.Days) && grid.Days[i].Suspended {
			st.Fill = filled(paleRed)
		}
		letter, color, bold := cellLetter(c)
		st.TextColor = color
		st.Bold = bold
		b.cell(c.Rect, letter, st)
	}

	total := base
	total.Bold = true
	total.Align = AlignCenter
	total.Fill = filled(trainFill)
	b.cell(r.TrainingCell, strconv.Itoa(r.Trainings), total)
	total.Fill = filled(matchFill)
	b.cell(r.MatchCell, strconv.Itoa(r.Matches), total)
}
