package handler

import (
	"net/http"

	"github.com/teamdesk/platform/internal/aggregate"
	"github.com/teamdesk/platform/internal/report"
)

// StatsHandler serves the aggregations behind the reports as JSON.
type StatsHandler struct {
	snapshots report.SnapshotSource
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(snapshots report.SnapshotSource) *StatsHandler {
	return &StatsHandler{snapshots: snapshots}
}

// Attendance handles GET /stats/attendance/{year}: presences per player and
// month.
func (h *StatsHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	year, err := pathInt(r, "year")
	if err != nil {
		RespondError(w, err)
		return
	}
	snap, err := h.snapshots.Load(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, aggregate.TeamAttendanceByMonth(snap.Attendance, snap.Roster, year))
}

// Scorers handles GET /stats/scorers.
func (h *StatsHandler) Scorers(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Load(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	ranking := aggregate.GoalRanking(snap.Matches)
	if ranking == nil {
		RespondJSON(w, http.StatusOK, []struct{}{})
		return
	}
	RespondJSON(w, http.StatusOK, ranking)
}

// Team handles GET /stats/team/{year}/{month}: the month's average score
// per skill.
func (h *StatsHandler) Team(w http.ResponseWriter, r *http.Request) {
	period, err := pathPeriod(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	snap, err := h.snapshots.Load(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, aggregate.TeamMonthlyAverages(snap.Evaluations, snap.Roster, period))
}
