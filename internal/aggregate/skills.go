package aggregate

import (
	"math"
	"slices"
	"time"

	"github.com/teamdesk/platform/internal/domain"
)

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SkillAverages holds one average per skill.
type SkillAverages [domain.SkillCount]float64

// MonthSkills is one evaluated month of a player.
type MonthSkills struct {
	Month       time.Month    `json:"month"`
	Scores      domain.Scores `json:"scores"`
	Observation string        `json:"observation,omitempty"`
}

// SkillSummary is a player's season of evaluations.
type SkillSummary struct {
	NationalID string        `json:"national_id"`
	Year       int           `json:"year"`
	Months     []MonthSkills `json:"months"`
	Averages   SkillAverages `json:"averages"`
	Evaluated  int           `json:"evaluated"`
}

type evalKey struct {
	id     string
	period domain.Period
}

// firstPerPeriod keeps the first evaluation of every (player, period),
// the same row an upsert would have updated.
func firstPerPeriod(evals []domain.SkillEvaluation) []domain.SkillEvaluation {
	seen := make(map[evalKey]bool, len(evals))
	out := make([]domain.SkillEvaluation, 0, len(evals))
	for _, e := range evals {
		k := evalKey{id: e.NationalID, period: e.Period}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// SkillRollup collects a player's evaluations of year ordered by month and
// averages every skill over the evaluated months. With no evaluation the
// averages are zero and Evaluated is 0.
func SkillRollup(evals []domain.SkillEvaluation, nationalID string, year int) SkillSummary {
	sum := SkillSummary{NationalID: nationalID, Year: year, Months: []MonthSkills{}}
	for _, e := range firstPerPeriod(evals) {
		if e.NationalID != nationalID || e.Period.Year != year {
			continue
		}
		sum.Months = append(sum.Months, MonthSkills{Month: e.Period.Month, Scores: e.Scores, Observation: e.Observation})
	}
	slices.SortStableFunc(sum.Months, func(a, b MonthSkills) int { return int(a.Month) - int(b.Month) })

	sum.Evaluated = len(sum.Months)
	if sum.Evaluated == 0 {
		return sum
	}
	var totals [domain.SkillCount]int
	for _, m := range sum.Months {
		for i, v := range m.Scores {
			totals[i] += v
		}
	}
	for i, t := range totals {
		sum.Averages[i] = round1(float64(t) / float64(sum.Evaluated))
	}
	return sum
}

// TeamAverages is the per-skill average of one month over the players that
// were evaluated that month.
type TeamAverages struct {
	Period     domain.Period `json:"period"`
	Averages   SkillAverages `json:"averages"`
	Evaluated  int           `json:"evaluated"`
	RosterSize int           `json:"roster_size"`
}

// TeamMonthlyAverages averages period's evaluations of roster players.
// Players without an evaluation are left out of the base, not counted as 0.
func TeamMonthlyAverages(evals []domain.SkillEvaluation, roster domain.Roster, period domain.Period) TeamAverages {
	out := TeamAverages{Period: period, RosterSize: len(roster)}
	members := roster.IDs()

	var totals [domain.SkillCount]int
	for _, e := range firstPerPeriod(evals) {
		if e.Period != period || !members[e.NationalID] {
			continue
		}
		out.Evaluated++
		for i, v := range e.Scores {
			totals[i] += v
		}
	}
	if out.Evaluated == 0 {
		return out
	}
	for i, t := range totals {
		out.Averages[i] = round1(float64(t) / float64(out.Evaluated))
	}
	return out
}

// Evaluated returns the set of roster players with an evaluation in period.
func Evaluated(evals []domain.SkillEvaluation, period domain.Period) map[string]bool {
	out := make(map[string]bool)
	for _, e := range evals {
		if e.Period == period {
			out[e.NationalID] = true
		}
	}
	return out
}
