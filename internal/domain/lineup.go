package domain

// Assignment maps a pitch slot name to the national id of the player in it.
// Being a map, one slot holds at most one player; callers keep a player
// out of two slots.
type Assignment map[string]string

// Absence is a player left out of a lineup, with an optional reason.
type Absence struct {
	NationalID string `json:"national_id"`
	Reason     string `json:"reason,omitempty"`
}
