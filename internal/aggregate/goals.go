package aggregate

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/teamdesk/platform/internal/domain"
)

// tallyEntry matches "Name (n)" with the count as a trailing parenthesized
// integer. Names containing commas cannot be represented.
var tallyEntry = regexp.MustCompile(`^(.+?)\s*\((\d+)\)\s*$`)

// ParseScorerTally extracts the entries of a "Name (n), Name (n)" string in
// order. Entries without a trailing count are skipped.
func ParseScorerTally(s string) []domain.ScorerCount {
	var out []domain.ScorerCount
	for _, part := range strings.Split(s, ",") {
		m := tallyEntry.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		out = append(out, domain.ScorerCount{Name: name, Goals: n})
	}
	return out
}

// GoalRanking totals goals per scorer name across matches, highest first.
// Ties keep the order in which names were first seen.
func GoalRanking(matches []domain.MatchRecord) []domain.ScorerCount {
	index := make(map[string]int)
	var ranking []domain.ScorerCount
	for _, m := range matches {
		for _, c := range ParseScorerTally(m.ScorerTally) {
			i, ok := index[c.Name]
			if !ok {
				index[c.Name] = len(ranking)
				ranking = append(ranking, c)
				continue
			}
			ranking[i].Goals += c.Goals
		}
	}
	slices.SortStableFunc(ranking, func(a, b domain.ScorerCount) int { return b.Goals - a.Goals })
	return ranking
}

// PlayerGoals totals the goals credited to player's display name, compared
// case-insensitively.
func PlayerGoals(matches []domain.MatchRecord, player domain.Player) int {
	name := player.DisplayName()
	total := 0
	for _, m := range matches {
		for _, c := range ParseScorerTally(m.ScorerTally) {
			if strings.EqualFold(c.Name, name) {
				total += c.Goals
			}
		}
	}
	return total
}
