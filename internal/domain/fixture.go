package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FixtureEntry is one scheduled match.
type FixtureEntry struct {
	Key          uuid.UUID `json:"key"`
	Date         time.Time `json:"date"`
	Opponent     string    `json:"opponent"`
	Venue        Venue     `json:"venue"`
	LocationLink string    `json:"location_link,omitempty"`
}

// Label is the "dd/mm/yyyy vs Opponent (venue)" form used to pick a match
// for a formation sheet.
func (f FixtureEntry) Label() string {
	return fmt.Sprintf("%s vs %s (%s)", f.Date.Format(DateLayout), f.Opponent, f.Venue)
}
