package aggregate

import (
	"slices"

	"github.com/teamdesk/platform/internal/domain"
)

// Result is a match outcome from the team's perspective.
type Result string

const (
	Win  Result = "W"
	Draw Result = "D"
	Loss Result = "L"
)

// MatchResult pairs a match with its outcome.
type MatchResult struct {
	Match  domain.MatchRecord `json:"match"`
	Result Result             `json:"result"`
}

// SeasonRecord totals a list of matches.
type SeasonRecord struct {
	Played         int `json:"played"`
	Won            int `json:"won"`
	Drawn          int `json:"drawn"`
	Lost           int `json:"lost"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	CornersFor     int `json:"corners_for"`
	CornersAgainst int `json:"corners_against"`
}

// GoalDifference is goals for minus goals against.
func (r SeasonRecord) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

func resultOf(m domain.MatchRecord) Result {
	switch {
	case m.GoalsFor > m.GoalsAgainst:
		return Win
	case m.GoalsFor < m.GoalsAgainst:
		return Loss
	default:
		return Draw
	}
}

// MatchResults returns matches in date order with their outcome and the
// season totals.
func MatchResults(matches []domain.MatchRecord) ([]MatchResult, SeasonRecord) {
	sorted := slices.Clone(matches)
	slices.SortStableFunc(sorted, func(a, b domain.MatchRecord) int { return a.Date.Compare(b.Date) })

	out := make([]MatchResult, 0, len(sorted))
	var rec SeasonRecord
	for _, m := range sorted {
		r := resultOf(m)
		out = append(out, MatchResult{Match: m, Result: r})
		rec.Played++
		switch r {
		case Win:
			rec.Won++
		case Draw:
			rec.Drawn++
		case Loss:
			rec.Lost++
		}
		rec.GoalsFor += m.GoalsFor
		rec.GoalsAgainst += m.GoalsAgainst
		rec.CornersFor += m.CornersFor
		rec.CornersAgainst += m.CornersAgainst
	}
	return out, rec
}
