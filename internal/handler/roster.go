package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/service"
)

// RosterHandler handles roster endpoints.
type RosterHandler struct {
	svc *service.RosterService
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{svc: svc}
}

type playerRequest struct {
	FirstName  string `json:"first_name" validate:"required_without=LastName"`
	LastName   string `json:"last_name"`
	NationalID string `json:"national_id" validate:"required,max=32"`
	BirthDate  string `json:"birth_date" validate:"omitempty,datetime=02/01/2006"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
	Active     *bool  `json:"active"`
	Jersey     string `json:"jersey" validate:"omitempty,numeric"`
}

// List handles GET /roster.
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	roster, err := h.svc.List(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	if roster == nil {
		roster = domain.Roster{}
	}
	RespondJSON(w, http.StatusOK, roster)
}

// Save handles PUT /roster/{nationalID}. The path carries the id the
// player is stored under today, so a corrected id in the body rewrites
// that same row.
func (h *RosterHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := DecodeValid(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	p, created, err := h.svc.Save(r.Context(), domain.Player{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		NationalID: req.NationalID,
		BirthDate:  req.BirthDate,
		Position:   req.Position,
		Phone:      req.Phone,
		Active:     active,
		Jersey:     req.Jersey,
	}, chi.URLParam(r, "nationalID"))
	if err != nil {
		RespondError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	RespondJSON(w, status, p)
}
