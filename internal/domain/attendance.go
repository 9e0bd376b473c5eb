package domain

import "time"

// AttendanceStatus is the per-player outcome recorded for a day.
type AttendanceStatus string

const (
	StatusPresent   AttendanceStatus = "present"
	StatusAbsent    AttendanceStatus = "absent"
	StatusSuspended AttendanceStatus = "suspended"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusSuspended:
		return true
	}
	return false
}

// SessionType is the kind of session held on a day.
type SessionType string

const (
	SessionTraining  SessionType = "training"
	SessionMatch     SessionType = "match"
	SessionSuspended SessionType = "suspended"
)

func (s SessionType) Valid() bool {
	switch s {
	case SessionTraining, SessionMatch, SessionSuspended:
		return true
	}
	return false
}

// AttendanceEvent is one (date, player) attendance row.
type AttendanceEvent struct {
	Date        time.Time        `json:"date"`
	NationalID  string           `json:"national_id"`
	Status      AttendanceStatus `json:"status"`
	Session     SessionType      `json:"session"`
	Observation string           `json:"observation,omitempty"`
}

// DaySheet is the complete attendance of one date as entered by a coach.
// Statuses holds only players that were marked; unmarked players write no
// row unless the whole session is suspended.
type DaySheet struct {
	Date        time.Time                   `json:"date"`
	Session     SessionType                 `json:"session"`
	Observation string                      `json:"observation,omitempty"`
	Statuses    map[string]AttendanceStatus `json:"statuses"`
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
