package handler

import (
	"net/http"

	"github.com/teamdesk/platform/internal/projection"
)

// ActivityHandler serves the recent activity feed built by the event
// consumer.
type ActivityHandler struct {
	store projection.Store
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(store projection.Store) *ActivityHandler {
	return &ActivityHandler{store: store}
}

// Recent handles GET /activity.
func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	feed, err := projection.RecentActivity(r.Context(), h.store)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, feed)
}
