package handler

import (
	"net/http"
	"time"

	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/layout"
	"github.com/teamdesk/platform/internal/service"
)

// FixtureHandler handles scheduled match endpoints.
type FixtureHandler struct {
	svc *service.FixtureService
}

// NewFixtureHandler creates a new FixtureHandler.
func NewFixtureHandler(svc *service.FixtureService) *FixtureHandler {
	return &FixtureHandler{svc: svc}
}

type fixtureRequest struct {
	Date         string       `json:"date" validate:"required,datetime=2006-01-02"`
	Opponent     string       `json:"opponent" validate:"required,max=100"`
	Venue        domain.Venue `json:"venue" validate:"required,oneof=home away"`
	LocationLink string       `json:"location_link" validate:"omitempty,url"`
}

func (req fixtureRequest) entry() domain.FixtureEntry {
	date, _ := time.Parse(time.DateOnly, req.Date)
	return domain.FixtureEntry{Date: date, Opponent: req.Opponent, Venue: req.Venue, LocationLink: req.LocationLink}
}

// List handles GET /fixtures.
func (h *FixtureHandler) List(w http.ResponseWriter, r *http.Request) {
	fixtures, err := h.svc.List(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	if fixtures == nil {
		fixtures = []domain.FixtureEntry{}
	}
	RespondJSON(w, http.StatusOK, fixtures)
}

// Add handles POST /fixtures.
func (h *FixtureHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req fixtureRequest
	if err := DecodeValid(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	f, err := h.svc.Add(r.Context(), req.entry(), r.Header.Get("Idempotency-Key"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, f)
}

// Edit handles PUT /fixtures/{key}.
func (h *FixtureHandler) Edit(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	var req fixtureRequest
	if err := DecodeValid(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	f, err := h.svc.Edit(r.Context(), key, req.entry())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, f)
}

// Delete handles DELETE /fixtures/{key}.
func (h *FixtureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), key); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

// Calendar handles GET /fixtures/calendar/{year}/{month}.
func (h *FixtureHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	period, err := pathPeriod(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	fixtures, err := h.svc.List(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, layout.BuildMonthCalendar(fixtures, period.Year, period.Month))
}

// Opponents handles GET /fixtures/opponents.
func (h *FixtureHandler) Opponents(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.Opponents(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	RespondJSON(w, http.StatusOK, names)
}
