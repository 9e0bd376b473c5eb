package handler

import (
	"net/http"

	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/service"
)

// AttendanceHandler handles per-day attendance endpoints.
type AttendanceHandler struct {
	svc *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

type daySheetRequest struct {
	Session     domain.SessionType                 `json:"session" validate:"required,oneof=training match suspended"`
	Observation string                             `json:"observation" validate:"max=500"`
	Statuses    map[string]domain.AttendanceStatus `json:"statuses" validate:"dive,omitempty,oneof=present absent"`
}

// Get handles GET /attendance/{date}.
func (h *AttendanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		RespondError(w, err)
		return
	}
	rec, err := h.svc.LoadDay(r.Context(), date)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, rec)
}

// Put handles PUT /attendance/{date}. The body replaces everything stored
// for that date.
func (h *AttendanceHandler) Put(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		RespondError(w, err)
		return
	}
	var req daySheetRequest
	if err := DecodeValid(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	res, err := h.svc.SaveDay(r.Context(), domain.DaySheet{
		Date:        date,
		Session:     req.Session,
		Observation: req.Observation,
		Statuses:    req.Statuses,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, res)
}

// Delete handles DELETE /attendance/{date}.
func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		RespondError(w, err)
		return
	}
	res, err := h.svc.DeleteDay(r.Context(), date)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, res)
}
