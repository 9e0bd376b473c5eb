package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func newDraft(agg AggregateType, aggID string, typ EventType, payload any) EventDraft {
	body, _ := json.Marshal(payload)
	return EventDraft{
		EventID:       uuid.New(),
		AggregateType: agg,
		AggregateID:   aggID,
		EventType:     typ,
		PartitionKey:  string(agg),
		Payload:       body,
		OccurredAt:    time.Now().UTC(),
	}
}

// NewDayReplacedEvent records that a date's attendance rows were rewritten.
func NewDayReplacedEvent(date time.Time, session SessionType, rows int) EventDraft {
	day := date.Format(DateLayout)
	return newDraft(AggregateAttendance, day, EventAttendanceDayReplaced, map[string]any{
		"date":    day,
		"session": session,
		"rows":    rows,
	})
}

// NewDayDeletedEvent records that a date's attendance rows were removed.
func NewDayDeletedEvent(date time.Time, removed int) EventDraft {
	day := date.Format(DateLayout)
	return newDraft(AggregateAttendance, day, EventAttendanceDayDeleted, map[string]any{
		"date":    day,
		"removed": removed,
	})
}

// NewEvaluationUpsertedEvent records a find-or-append outcome.
func NewEvaluationUpsertedEvent(nationalID string, period Period, created bool, duplicates int) EventDraft {
	return newDraft(AggregateEvaluation, fmt.Sprintf("%s:%s", nationalID, period), EventEvaluationUpserted, map[string]any{
		"national_id": nationalID,
		"period":      period.String(),
		"created":     created,
		"duplicates":  duplicates,
	})
}

func NewMatchRecordedEvent(m MatchRecord) EventDraft {
	return newDraft(AggregateMatch, m.Key.String(), EventMatchRecorded, m)
}

func NewMatchDeletedEvent(key uuid.UUID) EventDraft {
	return newDraft(AggregateMatch, key.String(), EventMatchDeleted, map[string]string{"key": key.String()})
}

func NewFixtureChangedEvent(f FixtureEntry) EventDraft {
	return newDraft(AggregateFixture, f.Key.String(), EventFixtureChanged, f)
}

func NewFixtureDeletedEvent(key uuid.UUID) EventDraft {
	return newDraft(AggregateFixture, key.String(), EventFixtureDeleted, map[string]string{"key": key.String()})
}

// NewPlayerSavedEvent records a roster add or edit.
func NewPlayerSavedEvent(p Player, created bool) EventDraft {
	return newDraft(AggregateRoster, p.NationalID, EventPlayerSaved, map[string]any{
		"national_id": p.NationalID,
		"name":        p.DisplayName(),
		"created":     created,
	})
}

// NewReportGeneratedEvent records a persisted report artifact.
func NewReportGeneratedEvent(kind, subject, artifact string) EventDraft {
	return newDraft(AggregateReport, kind+":"+subject, EventReportGenerated, map[string]string{
		"kind":     kind,
		"subject":  subject,
		"artifact": artifact,
	})
}
