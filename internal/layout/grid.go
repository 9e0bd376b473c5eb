package layout

import (
	"time"

	"github.com/teamdesk/platform/internal/domain"
)

// GridGeometry sizes the monthly attendance grid. The header takes two
// rows: day numbers, then weekday letters.
type GridGeometry struct {
	Origin       Point
	NameWidth    float64
	DayWidth     float64
	RowHeight    float64
	SummaryWidth float64
}

// DefaultGridGeometry fits 31 days on a landscape A4 page.
var DefaultGridGeometry = GridGeometry{
	Origin:       Point{X: 10, Y: 24},
	NameWidth:    55,
	DayWidth:     6.5,
	RowHeight:    6,
	SummaryWidth: 12,
}

// weekdayLetters is indexed by time.Weekday.
var weekdayLetters = [7]string{"S", "M", "T", "W", "T", "F", "S"}

// WeekdayLetter returns the one-letter weekday of t.
func WeekdayLetter(t time.Time) string {
	return weekdayLetters[t.Weekday()]
}

// DayColumn is one day of the grid header.
type DayColumn struct {
	Day       int    `json:"day"`
	Weekday   string `json:"weekday"`
	Suspended bool   `json:"suspended"`
	Number    Rect   `json:"number"`
	Letter    Rect   `json:"letter"`
}

// GridCell is one (player, day) cell. Status is empty when nothing was
// recorded.
type GridCell struct {
	Day     int                     `json:"day"`
	Status  domain.AttendanceStatus `json:"status,omitempty"`
	Session domain.SessionType      `json:"session,omitempty"`
	Rect    Rect                    `json:"rect"`
}

// GridRow is one player's line of the grid.
type GridRow struct {
	Player       domain.Player `json:"player"`
	Name         Rect          `json:"name"`
	Cells        []GridCell    `json:"cells"`
	Trainings    int           `json:"trainings"`
	Matches      int           `json:"matches"`
	TrainingCell Rect          `json:"training_cell"`
	MatchCell    Rect          `json:"match_cell"`
}

// DayNote is the observation recorded for a day.
type DayNote struct {
	Day  int    `json:"day"`
	Text string `json:"text"`
}

// MonthGrid is the laid-out monthly attendance sheet.
type MonthGrid struct {
	Year         int         `json:"year"`
	Month        time.Month  `json:"month"`
	Days         []DayColumn `json:"days"`
	NameHeader   Rect        `json:"name_header"`
	TrainingHead Rect        `json:"training_header"`
	MatchHead    Rect        `json:"match_header"`
	Rows         []GridRow   `json:"rows"`
	Notes        []DayNote   `json:"notes"`
	Width        float64     `json:"width"`
}

// Bottom is the y coordinate below the last row.
func (g MonthGrid) Bottom(geom GridGeometry) float64 {
	return geom.Origin.Y + geom.RowHeight*float64(2+len(g.Rows))
}

func (geom GridGeometry) dayX(day int) float64 {
	return geom.Origin.X + geom.NameWidth + geom.DayWidth*float64(day-1)
}

func (geom GridGeometry) rowY(index int) float64 {
	return geom.Origin.Y + geom.RowHeight*float64(2+index)
}

// placeRow sets every rectangle of r for the given row index.
func (geom GridGeometry) placeRow(r *GridRow, index, days int) {
	y := geom.rowY(index)
	r.Name = Rect{X: geom.Origin.X, Y: y, W: geom.NameWidth, H: geom.RowHeight}
	for i := range r.Cells {
		r.Cells[i].Rect = Rect{X: geom.dayX(r.Cells[i].Day), Y: y, W: geom.DayWidth, H: geom.RowHeight}
	}
	sx := geom.dayX(days + 1)
	r.TrainingCell = Rect{X: sx, Y: y, W: geom.SummaryWidth, H: geom.RowHeight}
	r.MatchCell = Rect{X: sx + geom.SummaryWidth, Y: y, W: geom.SummaryWidth, H: geom.RowHeight}
}

// BuildMonthGrid lays out one row per roster player (roster order) with one
// column per calendar day of the month. A day is flagged suspended when any
// event of that day is suspended. When several rows of a day carry an
// observation the last one wins.
func BuildMonthGrid(roster domain.Roster, events []domain.AttendanceEvent, year int, month time.Month, geom GridGeometry) MonthGrid {
	days := domain.DaysIn(year, month)
	g := MonthGrid{Year: year, Month: month, Notes: []DayNote{}}

	type cellKey struct {
		id  string
		day int
	}
	cells := make(map[cellKey]domain.AttendanceEvent)
	suspended := make(map[int]bool)
	notes := make(map[int]string)
	for _, e := range events {
		if e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		d := e.Date.Day()
		if e.Session == domain.SessionSuspended || e.Status == domain.StatusSuspended {
			suspended[d] = true
		}
		k := cellKey{id: e.NationalID, day: d}
		if _, ok := cells[k]; !ok {
			cells[k] = e
		}
		if e.Observation != "" {
			notes[d] = e.Observation
		}
	}

	g.NameHeader = Rect{X: geom.Origin.X, Y: geom.Origin.Y, W: geom.NameWidth, H: 2 * geom.RowHeight}
	for d := 1; d <= days; d++ {
		x := geom.dayX(d)
		g.Days = append(g.Days, DayColumn{
			Day:       d,
			Weekday:   WeekdayLetter(time.Date(year, month, d, 0, 0, 0, 0, time.UTC)),
			Suspended: suspended[d],
			Number:    Rect{X: x, Y: geom.Origin.Y, W: geom.DayWidth, H: geom.RowHeight},
			Letter:    Rect{X: x, Y: geom.Origin.Y + geom.RowHeight, W: geom.DayWidth, H: geom.RowHeight},
		})
		if text, ok := notes[d]; ok {
			g.Notes = append(g.Notes, DayNote{Day: d, Text: text})
		}
	}
	sx := geom.dayX(days + 1)
	g.TrainingHead = Rect{X: sx, Y: geom.Origin.Y, W: geom.SummaryWidth, H: 2 * geom.RowHeight}
	g.MatchHead = Rect{X: sx + geom.SummaryWidth, Y: geom.Origin.Y, W: geom.SummaryWidth, H: 2 * geom.RowHeight}
	g.Width = geom.NameWidth + geom.DayWidth*float64(days) + 2*geom.SummaryWidth

	for i, p := range roster {
		row := GridRow{Player: p, Cells: make([]GridCell, days)}
		for d := 1; d <= days; d++ {
			c := GridCell{Day: d}
			if e, ok := cells[cellKey{id: p.NationalID, day: d}]; ok {
				c.Status = e.Status
				c.Session = e.Session
				if e.Status == domain.StatusPresent {
					switch e.Session {
					case domain.SessionTraining:
						row.Trainings++
					case domain.SessionMatch:
						row.Matches++
					}
				}
			}
			row.Cells[d-1] = c
		}
		geom.placeRow(&row, i, days)
		g.Rows = append(g.Rows, row)
	}
	return g
}

// RowsPerPage is how many grid rows fit between the grid origin and
// bottom, leaving the two header rows.
func (geom GridGeometry) RowsPerPage(bottom float64) int {
	n := int((bottom-geom.Origin.Y)/geom.RowHeight) - 2
	return max(n, 1)
}

// Paginate splits the grid rows into pages of at most perPage rows and
// re-positions each page's rows below the header.
func Paginate(g MonthGrid, geom GridGeometry, perPage int) [][]GridRow {
	if perPage < 1 {
		perPage = 1
	}
	days := len(g.Days)
	var pages [][]GridRow
	for start := 0; start < len(g.Rows); start += perPage {
		end := min(start+perPage, len(g.Rows))
		page := make([]GridRow, 0, end-start)
		for i, r := range g.Rows[start:end] {
			r.Cells = append([]GridCell(nil), r.Cells...)
			geom.placeRow(&r, i, days)
			page = append(page, r)
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		pages = append(pages, []GridRow{})
	}
	return pages
}
