package domain

import (
	"strings"
	"time"
)

// DateLayout is the day-precision layout used by every table in the store.
const DateLayout = "02/01/2006"

// ParseLayout reads store dates with or without zero padding.
const ParseLayout = "2/1/2006"

// Player is one roster entry. NationalID is the business key every other
// table refers to.
type Player struct {
	ID         string `json:"id,omitempty"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	NationalID string `json:"national_id"`
	BirthDate  string `json:"birth_date,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Active     bool   `json:"active"`
	Jersey     string `json:"jersey,omitempty"`
}

// DisplayName is "First Last", the form used on lineups and scorer tallies.
func (p Player) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SortName is "Last First", the form used on attendance sheets.
func (p Player) SortName() string {
	return strings.TrimSpace(p.LastName + " " + p.FirstName)
}

// Age returns the player's age in whole years at now, or false when the
// birth date cannot be parsed. Both dd/mm/yyyy and dd-mm-yyyy are accepted.
func (p Player) Age(now time.Time) (int, bool) {
	layout := ParseLayout
	if !strings.Contains(p.BirthDate, "/") {
		layout = "2-1-2006"
	}
	born, err := time.Parse(layout, strings.TrimSpace(p.BirthDate))
	if err != nil {
		return 0, false
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age, true
}

// Roster is an ordered list of players. Order is the store's row order.
type Roster []Player

// Find returns the player with the given national id.
func (r Roster) Find(nationalID string) (Player, bool) {
	for _, p := range r {
		if p.NationalID == nationalID {
			return p, true
		}
	}
	return Player{}, false
}

// Active returns the players whose active flag is set, in roster order.
func (r Roster) Active() Roster {
	out := make(Roster, 0, len(r))
	for _, p := range r {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// IDs returns a membership set of national ids.
func (r Roster) IDs() map[string]bool {
	ids := make(map[string]bool, len(r))
	for _, p := range r {
		ids[p.NationalID] = true
	}
	return ids
}
