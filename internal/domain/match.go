package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Venue is where a match or fixture is played from the team's perspective.
type Venue string

const (
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

func (v Venue) Valid() bool {
	return v == VenueHome || v == VenueAway
}

// MatchRecord is one played match. Key is a synthetic identity stored in
// the row so that deletes never depend on a cached row position.
type MatchRecord struct {
	Key            uuid.UUID `json:"key"`
	Date           time.Time `json:"date"`
	Opponent       string    `json:"opponent"`
	Venue          Venue     `json:"venue"`
	GoalsFor       int       `json:"goals_for"`
	GoalsAgainst   int       `json:"goals_against"`
	CornersFor     int       `json:"corners_for"`
	CornersAgainst int       `json:"corners_against"`
	ScorerTally    string    `json:"scorer_tally,omitempty"`
}

// Title renders "Club vs Opponent" with the home side first.
func (m MatchRecord) Title(club string) string {
	if m.Venue == VenueAway {
		return fmt.Sprintf("%s vs %s", m.Opponent, club)
	}
	return fmt.Sprintf("%s vs %s", club, m.Opponent)
}

// ScorerCount is one entry of a scorer tally, in entry order.
type ScorerCount struct {
	Name  string `json:"name"`
	Goals int    `json:"goals"`
}

// FormatTally renders counts as "Name (n), Name (n)". Entries with a
// non-positive count are dropped.
func FormatTally(counts []ScorerCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.Goals <= 0 || strings.TrimSpace(c.Name) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", strings.TrimSpace(c.Name), c.Goals))
	}
	return strings.Join(parts, ", ")
}
