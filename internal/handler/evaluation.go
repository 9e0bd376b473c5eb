package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/service"
)

// EvaluationHandler handles monthly skill evaluation endpoints.
type EvaluationHandler struct {
	svc *service.EvaluationService
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(svc *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{svc: svc}
}

type evaluationRequest struct {
	Scores      []int  `json:"scores" validate:"len=7,dive,min=1,max=10"`
	Observation string `json:"observation" validate:"max=500"`
}

// Upsert handles PUT /evaluations/{nationalID}/{year}/{month}.
func (h *EvaluationHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	period, err := pathPeriod(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	var req evaluationRequest
	if err := DecodeValid(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	var scores domain.Scores
	copy(scores[:], req.Scores)

	out, err := h.svc.Upsert(r.Context(), chi.URLParam(r, "nationalID"), period, scores, req.Observation)
	if err != nil {
		RespondError(w, err)
		return
	}
	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	RespondJSON(w, status, out)
}

// Progress handles GET /evaluations/{year}/{month}/progress.
func (h *EvaluationHandler) Progress(w http.ResponseWriter, r *http.Request) {
	period, err := pathPeriod(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	p, err := h.svc.Progress(r.Context(), period)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, p)
}
