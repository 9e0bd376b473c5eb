package layout

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/teamdesk/platform/internal/domain"
)

// Slot is a named pitch position. The jersey number is part of the name,
// e.g. "Goalkeeper (1)"; X and Y are normalized within the pitch area with
// the own goal on the left.
type Slot struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Slot names in canonical order.
const (
	SlotGoalkeeper    = "Goalkeeper (1)"
	SlotLibero        = "Libero (2)"
	SlotStopper       = "Stopper (6)"
	SlotRightHalf     = "Right Half (4)"
	SlotLeftHalf      = "Left Half (3)"
	SlotCentreMid     = "Centre Midfield (5)"
	SlotRightMid      = "Right Midfield (8)"
	SlotLeftMid       = "Left Midfield (10)"
	SlotRightWing     = "Right Wing (7)"
	SlotCentreForward = "Centre Forward (9)"
	SlotLeftWing      = "Left Wing (11)"
)

const (
	unknownSlotLabel   = "!"
	goalkeeperJerseyNo = "1"
)

var slots = []Slot{
	{SlotGoalkeeper, 0.05, 0.5},
	{SlotLibero, 0.15, 0.5},
	{SlotStopper, 0.22, 0.5},
	{SlotRightHalf, 0.24, 0.15},
	{SlotLeftHalf, 0.24, 0.85},
	{SlotCentreMid, 0.45, 0.5},
	{SlotRightMid, 0.50, 0.20},
	{SlotLeftMid, 0.50, 0.80},
	{SlotRightWing, 0.78, 0.15},
	{SlotCentreForward, 0.85, 0.5},
	{SlotLeftWing, 0.78, 0.85},
}

// Slots returns the canonical slot table.
func Slots() []Slot {
	return slices.Clone(slots)
}

// Scheme is a named set of coordinate overrides.
type Scheme struct {
	Name      string
	Overrides map[string]Point
}

var schemes = []Scheme{
	{Name: "Double Pivot", Overrides: map[string]Point{
		SlotLibero:    {X: 0.45, Y: 0.35},
		SlotCentreMid: {X: 0.45, Y: 0.65},
		SlotStopper:   {X: 0.15, Y: 0.5},
	}},
	{Name: "3-3-1-3"},
	{Name: "4-3-3"},
}

// Schemes lists the known scheme names.
func Schemes() []string {
	out := make([]string, len(schemes))
	for i, s := range schemes {
		out[i] = s.Name
	}
	return out
}

// SchemeByName finds a scheme, case-insensitively.
func SchemeByName(name string) (Scheme, bool) {
	for _, s := range schemes {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Scheme{}, false
}

var jerseyNumber = regexp.MustCompile(`\((\d+)\)`)

// SlotLabel returns the jersey number carried by a slot name, or "!" when
// the name has none.
func SlotLabel(name string) string {
	m := jerseyNumber.FindStringSubmatch(name)
	if m == nil {
		return unknownSlotLabel
	}
	return m[1]
}

// normalized returns the slot's coordinates under scheme. Unknown slots sit
// at the pitch centre.
func normalized(scheme Scheme, name string) Point {
	if p, ok := scheme.Overrides[name]; ok {
		return p
	}
	for _, s := range slots {
		if s.Name == name {
			return Point{X: s.X, Y: s.Y}
		}
	}
	return Point{X: 0.5, Y: 0.5}
}

// Token is one occupied slot on the pitch diagram.
type Token struct {
	Slot       string  `json:"slot"`
	Label      string  `json:"label"`
	NationalID string  `json:"national_id"`
	Player     string  `json:"player"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Goalkeeper bool    `json:"goalkeeper"`
}

// PlacePlayers emits one token per occupied slot, canonical slots first in
// table order and unknown slot names after them in name order. Empty
// assignments produce no token. Player names come from roster; an id that
// is not on the roster is shown as is.
func PlacePlayers(area Rect, scheme Scheme, assign domain.Assignment, roster domain.Roster) []Token {
	names := make([]string, 0, len(assign))
	known := make(map[string]bool, len(slots))
	for _, s := range slots {
		known[s.Name] = true
		names = append(names, s.Name)
	}
	var extra []string
	for name := range assign {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	var tokens []Token
	for _, name := range names {
		id := strings.TrimSpace(assign[name])
		if id == "" {
			continue
		}
		display := id
		if p, ok := roster.Find(id); ok {
			display = p.DisplayName()
		}
		n := normalized(scheme, name)
		at := area.At(n.X, n.Y)
		label := SlotLabel(name)
		tokens = append(tokens, Token{
			Slot:       name,
			Label:      label,
			NationalID: id,
			Player:     display,
			X:          at.X,
			Y:          at.Y,
			Goalkeeper: label == goalkeeperJerseyNo,
		})
	}
	return tokens
}

// Substitutes returns active players that are neither assigned nor absent,
// sorted by display name.
func Substitutes(roster domain.Roster, assign domain.Assignment, absences []domain.Absence) []domain.Player {
	taken := make(map[string]bool, len(assign)+len(absences))
	for _, id := range assign {
		taken[strings.TrimSpace(id)] = true
	}
	for _, a := range absences {
		taken[a.NationalID] = true
	}
	var out []domain.Player
	for _, p := range roster.Active() {
		if !taken[p.NationalID] {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName()) < strings.ToLower(out[j].DisplayName())
	})
	return out
}

// AbsentPlayer is an absence resolved to a display name.
type AbsentPlayer struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// Absentees passes the absences through in order, resolving names.
func Absentees(roster domain.Roster, absences []domain.Absence) []AbsentPlayer {
	out := make([]AbsentPlayer, 0, len(absences))
	for _, a := range absences {
		name := a.NationalID
		if p, ok := roster.Find(a.NationalID); ok {
			name = p.DisplayName()
		}
		out = append(out, AbsentPlayer{Name: name, Reason: a.Reason})
	}
	return out
}
