package handler

import (
	"net/http"
	"time"

	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/service"
)

// MatchHandler handles played match endpoints.
type MatchHandler struct {
	svc *service.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(svc *service.MatchService) *MatchHandler {
	return &MatchHandler{svc: svc}
}

type scorerRequest struct {
	Name  string `json:"name" validate:"required"`
	Goals int    `json:"goals" validate:"min=1"`
}

type matchRequest struct {
	Date           string          `json:"date" validate:"required,datetime=2006-01-02"`
	Opponent       string          `json:"opponent" validate:"required,max=100"`
	Venue          domain.Venue    `json:"venue" validate:"required,oneof=home away"`
	GoalsFor       int             `json:"goals_for" validate:"min=0"`
	GoalsAgainst   int             `json:"goals_against" validate:"min=0"`
	CornersFor     int             `json:"corners_for" validate:"min=0"`
	CornersAgainst int             `json:"corners_against" validate:"min=0"`
	Scorers        []scorerRequest `json:"scorers" validate:"dive"`
}

type matchListResponse struct {
	Matches  []domain.MatchRecord  `json:"matches"`
	Progress service.MatchProgress `json:"progress"`
}

// List handles GET /matches.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.svc.List(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	progress, err := h.svc.Progress(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	if matches == nil {
		matches = []domain.MatchRecord{}
	}
	RespondJSON(w, http.StatusOK, matchListResponse{Matches: matches, Progress: progress})
}

// Record handles POST /matches. An Idempotency-Key header guards against
// a resubmitted form writing the match twice.
func (h *MatchHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := DecodeValid(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	date, _ := time.Parse(time.DateOnly, req.Date)
	scorers := make([]domain.ScorerCount, len(req.Scorers))
	for i, s := range req.Scorers {
		scorers[i] = domain.ScorerCount{Name: s.Name, Goals: s.Goals}
	}

	m, err := h.svc.Record(r.Context(), service.MatchInput{
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
		Date:           date,
		Opponent:       req.Opponent,
		Venue:          req.Venue,
		GoalsFor:       req.GoalsFor,
		GoalsAgainst:   req.GoalsAgainst,
		CornersFor:     req.CornersFor,
		CornersAgainst: req.CornersAgainst,
		Scorers:        scorers,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, m)
}

// Delete handles DELETE /matches/{key}.
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
