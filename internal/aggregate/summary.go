package aggregate

import (
	"github.com/teamdesk/platform/internal/domain"
)

// PlayerSummary is one row of the squad summary table.
type PlayerSummary struct {
	Player    domain.Player `json:"player"`
	Trainings int           `json:"trainings"`
	Matches   int           `json:"matches"`
	Technical float64       `json:"technical"`
	Physical  float64       `json:"physical"`
	Evaluated int           `json:"evaluated"`
}

// PlayerSummaries combines presence counts and season skill averages for
// every roster player. Technical is the mean of the first five skills;
// physical is the physical skill alone. A player with no evaluation that
// year reports 0 for both so tables stay fully populated.
func PlayerSummaries(roster domain.Roster, events []domain.AttendanceEvent, evals []domain.SkillEvaluation, year int) []PlayerSummary {
	out := make([]PlayerSummary, len(roster))
	index := make(map[string]int, len(roster))
	for i, p := range roster {
		out[i].Player = p
		if _, dup := index[p.NationalID]; !dup {
			index[p.NationalID] = i
		}
	}

	for _, e := range firstPerDay(events) {
		i, ok := index[e.NationalID]
		if !ok || e.Status != domain.StatusPresent || e.Date.Year() != year {
			continue
		}
		switch e.Session {
		case domain.SessionTraining:
			out[i].Trainings++
		case domain.SessionMatch:
			out[i].Matches++
		}
	}

	technical := make([]float64, len(roster))
	physical := make([]float64, len(roster))
	for _, e := range firstPerPeriod(evals) {
		i, ok := index[e.NationalID]
		if !ok || e.Period.Year != year {
			continue
		}
		tech := 0
		for s := 0; s < domain.TechnicalSkills; s++ {
			tech += e.Scores[s]
		}
		technical[i] += float64(tech) / domain.TechnicalSkills
		physical[i] += float64(e.Scores[domain.SkillPhysical])
		out[i].Evaluated++
	}
	for i := range out {
		if n := out[i].Evaluated; n > 0 {
			out[i].Technical = round1(technical[i] / float64(n))
			out[i].Physical = round1(physical[i] / float64(n))
		}
	}
	return out
}
