// Package aggregate computes the rollups every report and statistics view
// is built from. All functions are pure: same rows in, same result out.
package aggregate

import (
	"fmt"
	"math"
	"time"

	"github.com/teamdesk/platform/internal/domain"
)

// SessionFilter narrows which sessions an attendance rollup counts.
type SessionFilter int

const (
	AllSessions SessionFilter = iota
	TrainingOnly
	MatchOnly
)

func (f SessionFilter) accepts(s domain.SessionType) bool {
	switch f {
	case TrainingOnly:
		return s == domain.SessionTraining
	case MatchOnly:
		return s == domain.SessionMatch
	default:
		return true
	}
}

// Effectiveness is a presence percentage. It is undefined when nothing was
// recorded as present or absent, which is not the same as 0%.
type Effectiveness struct {
	Percent int  `json:"percent"`
	Valid   bool `json:"valid"`
}

// NewEffectiveness computes round(100*present/(present+absent)).
func NewEffectiveness(present, absent int) Effectiveness {
	base := present + absent
	if base <= 0 {
		return Effectiveness{}
	}
	return Effectiveness{Percent: int(math.Round(100 * float64(present) / float64(base))), Valid: true}
}

// Format renders the percentage, or placeholder when undefined.
func (e Effectiveness) Format(placeholder string) string {
	if !e.Valid {
		return placeholder
	}
	return fmt.Sprintf("%d%%", e.Percent)
}

// MonthAttendance is one month's counts for one player.
type MonthAttendance struct {
	Month         time.Month    `json:"month"`
	Present       int           `json:"present"`
	Absent        int           `json:"absent"`
	Suspended     int           `json:"suspended"`
	Effectiveness Effectiveness `json:"effectiveness"`
}

// AttendanceSummary is a player's attendance for one year.
type AttendanceSummary struct {
	NationalID string              `json:"national_id"`
	Year       int                 `json:"year"`
	Months     [12]MonthAttendance `json:"months"`
	Total      MonthAttendance     `json:"total"`
}

// Month returns the counts of m.
func (s AttendanceSummary) Month(m time.Month) MonthAttendance {
	return s.Months[m-1]
}

// dayKey identifies one (player, day) pair.
type dayKey struct {
	id   string
	date time.Time
}

// firstPerDay keeps the first event of every (player, day); later rows for
// the same pair are leftovers a partial write did not clean up.
func firstPerDay(events []domain.AttendanceEvent) []domain.AttendanceEvent {
	seen := make(map[dayKey]bool, len(events))
	out := make([]domain.AttendanceEvent, 0, len(events))
	for _, e := range events {
		k := dayKey{id: e.NationalID, date: domain.Day(e.Date)}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// AttendanceRollup counts a player's attendance per month of year.
// Suspended days are counted but never enter the effectiveness base.
func AttendanceRollup(events []domain.AttendanceEvent, nationalID string, year int, filter SessionFilter) AttendanceSummary {
	sum := AttendanceSummary{NationalID: nationalID, Year: year}
	for i := range sum.Months {
		sum.Months[i].Month = time.Month(i + 1)
	}

	for _, e := range firstPerDay(events) {
		if e.NationalID != nationalID || e.Date.Year() != year || !filter.accepts(e.Session) {
			continue
		}
		m := &sum.Months[e.Date.Month()-1]
		switch e.Status {
		case domain.StatusPresent:
			m.Present++
		case domain.StatusAbsent:
			m.Absent++
		case domain.StatusSuspended:
			m.Suspended++
		}
	}

	for i := range sum.Months {
		m := &sum.Months[i]
		m.Effectiveness = NewEffectiveness(m.Present, m.Absent)
		sum.Total.Present += m.Present
		sum.Total.Absent += m.Absent
		sum.Total.Suspended += m.Suspended
	}
	sum.Total.Effectiveness = NewEffectiveness(sum.Total.Present, sum.Total.Absent)
	return sum
}

// PlayerYear is one roster row of the yearly presence table.
type PlayerYear struct {
	Player  domain.Player `json:"player"`
	Monthly [12]int       `json:"monthly"`
	Total   int           `json:"total"`
}

// TeamAttendanceByMonth counts presences per player and month of year, in
// roster order. Events of players not on the roster are ignored.
func TeamAttendanceByMonth(events []domain.AttendanceEvent, roster domain.Roster, year int) []PlayerYear {
	index := make(map[string]int, len(roster))
	out := make([]PlayerYear, len(roster))
	for i, p := range roster {
		out[i].Player = p
		if _, dup := index[p.NationalID]; !dup {
			index[p.NationalID] = i
		}
	}
	for _, e := range firstPerDay(events) {
		if e.Status != domain.StatusPresent || e.Date.Year() != year {
			continue
		}
		i, ok := index[e.NationalID]
		if !ok {
			continue
		}
		out[i].Monthly[e.Date.Month()-1]++
		out[i].Total++
	}
	return out
}
