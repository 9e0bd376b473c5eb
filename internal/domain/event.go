package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventAttendanceDayReplaced EventType = "team.attendance.day.replaced"
	EventAttendanceDayDeleted  EventType = "team.attendance.day.deleted"
	EventEvaluationUpserted    EventType = "team.evaluation.upserted"
	EventMatchRecorded         EventType = "team.match.recorded"
	EventMatchDeleted          EventType = "team.match.deleted"
	EventFixtureChanged        EventType = "team.fixture.changed"
	EventFixtureDeleted        EventType = "team.fixture.deleted"
	EventPlayerSaved           EventType = "team.roster.player.saved"
	EventReportGenerated       EventType = "team.report.generated"
)

// EventTypes lists every published event type; each is its own topic.
var EventTypes = []EventType{
	EventAttendanceDayReplaced,
	EventAttendanceDayDeleted,
	EventEvaluationUpserted,
	EventMatchRecorded,
	EventMatchDeleted,
	EventFixtureChanged,
	EventFixtureDeleted,
	EventPlayerSaved,
	EventReportGenerated,
}

// AggregateType enumerates the aggregate root types for published events.
type AggregateType string

const (
	AggregateAttendance AggregateType = "attendance"
	AggregateEvaluation AggregateType = "evaluation"
	AggregateMatch      AggregateType = "match"
	AggregateFixture    AggregateType = "fixture"
	AggregateRoster     AggregateType = "roster"
	AggregateReport     AggregateType = "report"
)

// EventDraft is a domain event ready to publish.
type EventDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     EventType       `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// Topic is the broker topic an event is published on.
func (d EventDraft) Topic() string {
	return string(d.EventType)
}
