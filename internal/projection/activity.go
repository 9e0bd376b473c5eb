package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teamdesk/platform/internal/domain"
)

const activityKey = "projection:activity"

// ActivityLimit is how many entries the feed keeps.
const ActivityLimit = 50

// ActivityEntry is one published event as shown in the recent activity feed.
type ActivityEntry struct {
	EventID       uuid.UUID            `json:"event_id"`
	EventType     domain.EventType     `json:"event_type"`
	AggregateType domain.AggregateType `json:"aggregate_type"`
	AggregateID   string               `json:"aggregate_id"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// ActivityFromEvent projects an event onto a feed entry.
func ActivityFromEvent(d domain.EventDraft) ActivityEntry {
	return ActivityEntry{
		EventID:       d.EventID,
		EventType:     d.EventType,
		AggregateType: d.AggregateType,
		AggregateID:   d.AggregateID,
		OccurredAt:    d.OccurredAt,
	}
}

// RecentActivity returns the feed, newest first. An empty feed is not an
// error.
func RecentActivity(ctx context.Context, store Store) ([]ActivityEntry, error) {
	var feed []ActivityEntry
	if err := GetJSON(ctx, store, activityKey, &feed); err != nil {
		if errors.Is(err, ErrMissing) {
			return []ActivityEntry{}, nil
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return feed, nil
}

// RecordActivity puts e at the head of the feed and trims it to limit.
// Redelivered events are ignored. It reports whether e was added.
func RecordActivity(ctx context.Context, store Store, e ActivityEntry, limit int) (bool, error) {
	feed, err := RecentActivity(ctx, store)
	if err != nil {
		return false, err
	}
	for _, have := range feed {
		if have.EventID == e.EventID {
			return false, nil
		}
	}

	feed = append([]ActivityEntry{e}, feed...)
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	if err := SetJSON(ctx, store, activityKey, feed, 0); err != nil {
		return false, fmt.Errorf("record activity: %w", err)
	}
	return true, nil
}
