package repository

import (
	"context"
	"fmt"
)

// Table names.
const (
	TablePlayers     = "players"
	TableAttendance  = "attendance"
	TableEvaluations = "evaluations"
	TableMatches     = "matches"
	TableFixtures    = "fixtures"
)

// Column positions (0-based) used by the reconciliation protocols.
const (
	PlayerNationalIDCol = 3
	PlayerColumns       = 9

	AttendanceDateCol       = 0
	AttendanceNationalIDCol = 1
	AttendanceColumns       = 5

	EvaluationDateCol       = 0
	EvaluationNationalIDCol = 1
	EvaluationFirstScoreCol = 2
	EvaluationColumns       = 10

	MatchKeyCol    = 8
	MatchColumns   = 9
	FixtureKeyCol  = 4
	FixtureColumns = 5
)

// Headers holds the header row of every table.
var Headers = map[string]Row{
	TablePlayers:     {"id", "first_name", "last_name", "national_id", "birth_date", "position", "phone", "active", "jersey"},
	TableAttendance:  {"date", "national_id", "status", "session", "observation"},
	TableEvaluations: {"date", "national_id", "push", "dribbling", "flick", "hitting", "sweep", "physical", "tackling", "observation"},
	TableMatches:     {"date", "opponent", "venue", "goals_for", "goals_against", "corners_for", "corners_against", "scorers", "key"},
	TableFixtures:    {"date", "opponent", "venue", "location_link", "key"},
}

// TableNames lists the tables in load order.
var TableNames = []string{TablePlayers, TableAttendance, TableEvaluations, TableMatches, TableFixtures}

// EnsureSchema creates every table the application uses.
func EnsureSchema(ctx context.Context, store TableStore) error {
	for _, name := range TableNames {
		if err := store.EnsureTable(ctx, name, Headers[name]); err != nil {
			return fmt.Errorf("ensure table %s: %w", name, err)
		}
	}
	return nil
}
