package layout

import (
	"time"

	"github.com/teamdesk/platform/internal/domain"
)

// CalendarDay is one cell of a month calendar. Day is 0 for the padding
// cells before the first and after the last day.
type CalendarDay struct {
	Day      int                   `json:"day"`
	Fixtures []domain.FixtureEntry `json:"fixtures,omitempty"`
	Home     bool                  `json:"home"`
	Away     bool                  `json:"away"`
}

// MonthCalendar is a Monday-first month view of the fixture list.
type MonthCalendar struct {
	Year  int              `json:"year"`
	Month time.Month       `json:"month"`
	Weeks [][7]CalendarDay `json:"weeks"`
}

// mondayIndex maps time.Weekday to a Monday-first column.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// BuildMonthCalendar places fixtures of the month on their days.
func BuildMonthCalendar(fixtures []domain.FixtureEntry, year int, month time.Month) MonthCalendar {
	cal := MonthCalendar{Year: year, Month: month}
	byDay := make(map[int][]domain.FixtureEntry)
	for _, f := range fixtures {
		if f.Date.Year() == year && f.Date.Month() == month {
			byDay[f.Date.Day()] = append(byDay[f.Date.Day()], f)
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	col := mondayIndex(first.Weekday())
	var week [7]CalendarDay
	for d := 1; d <= domain.DaysIn(year, month); d++ {
		cell := CalendarDay{Day: d, Fixtures: byDay[d]}
		for _, f := range cell.Fixtures {
			if f.Venue == domain.VenueAway {
				cell.Away = true
			} else {
				cell.Home = true
			}
		}
		week[col] = cell
		col++
		if col == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = [7]CalendarDay{}
			col = 0
		}
	}
	if col > 0 {
		cal.Weeks = append(cal.Weeks, week)
	}
	return cal
}
