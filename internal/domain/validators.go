package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var nationalIDRegex = regexp.MustCompile(`^[0-9A-Za-z.\-]{4,20}$`)

// ValidateNationalID checks the roster business key.
func ValidateNationalID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("national id is required")
	}
	if !nationalIDRegex.MatchString(id) {
		return fmt.Errorf("invalid national id format: %s", id)
	}
	return nil
}

// ValidateScores checks every skill score is within MinScore..MaxScore.
func ValidateScores(s Scores) error {
	for i, v := range s {
		if v < MinScore || v > MaxScore {
			return fmt.Errorf("%s score must be between %d and %d, got %d", Skill(i), MinScore, MaxScore, v)
		}
	}
	return nil
}

// ValidateDaySheet checks a day's attendance input before it is written.
func ValidateDaySheet(d DaySheet) error {
	if d.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if !d.Session.Valid() {
		return fmt.Errorf("invalid session type: %q", d.Session)
	}
	for id, st := range d.Statuses {
		if st == "" {
			continue
		}
		if st != StatusPresent && st != StatusAbsent {
			return fmt.Errorf("invalid status %q for %s", st, id)
		}
	}
	return nil
}

// ValidatePeriod checks a year/month pair.
func ValidatePeriod(p Period) error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", p.Month)
	}
	if p.Year < 1900 || p.Year > 9999 {
		return fmt.Errorf("year out of range: %d", p.Year)
	}
	return nil
}
