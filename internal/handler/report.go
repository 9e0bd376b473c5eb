package handler

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/report"
)

// ReportHandler triggers report generation.
type ReportHandler struct {
	gen *report.Generator
	now func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(gen *report.Generator) *ReportHandler {
	return &ReportHandler{gen: gen, now: time.Now}
}

type absenceRequest struct {
	NationalID string `json:"national_id" validate:"required"`
	Reason     string `json:"reason"`
}

type formationRequest struct {
	FixtureKey string            `json:"fixture_key" validate:"omitempty,uuid"`
	Match      string            `json:"match" validate:"required_without=FixtureKey"`
	Scheme     string            `json:"scheme" validate:"required"`
	Assignment map[string]string `json:"assignment"`
	Absences   []absenceRequest  `json:"absences" validate:"dive"`
}

// respondResult maps a generation result to 201 or 422; the body is the
// result either way.
func respondResult(w http.ResponseWriter, res report.Result) {
	if !res.Success {
		RespondJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	RespondJSON(w, http.StatusCreated, res)
}

// queryYear reads ?year=, defaulting to the current year.
func (h *ReportHandler) queryYear(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return h.now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrValidation("invalid year")
	}
	return year, nil
}

// Formation handles POST /reports/formation.
func (h *ReportHandler) Formation(w http.ResponseWriter, r *http.Request) {
	var req formationRequest
	if err := DecodeValid(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	in := report.FormationRequest{
		Match:      req.Match,
		Scheme:     req.Scheme,
		Assignment: domain.Assignment(req.Assignment),
	}
	if req.FixtureKey != "" {
		in.FixtureKey = uuid.MustParse(req.FixtureKey)
	}
	for _, a := range req.Absences {
		in.Absences = append(in.Absences, domain.Absence{NationalID: a.NationalID, Reason: a.Reason})
	}
	respondResult(w, h.gen.Formation(r.Context(), in))
}

// Dossier handles POST /reports/players/{nationalID}/dossier?year=.
func (h *ReportHandler) Dossier(w http.ResponseWriter, r *http.Request) {
	year, err := h.queryYear(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	respondResult(w, h.gen.Dossier(r.Context(), chi.URLParam(r, "nationalID"), year))
}

// Monthly handles POST /reports/attendance/{year}/{month}.
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	period, err := pathPeriod(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	respondResult(w, h.gen.Monthly(r.Context(), period.Year, period.Month))
}

// Squad handles POST /reports/squad?year=.
func (h *ReportHandler) Squad(w http.ResponseWriter, r *http.Request) {
	year, err := h.queryYear(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	respondResult(w, h.gen.Squad(r.Context(), year))
}

// Results handles POST /reports/results.
func (h *ReportHandler) Results(w http.ResponseWriter, r *http.Request) {
	respondResult(w, h.gen.Results(r.Context()))
}

// Latest handles GET /reports/latest/{kind}?subject=.
func (h *ReportHandler) Latest(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !slices.Contains(report.ReportKinds, kind) {
		RespondError(w, domain.ErrValidation("unknown report kind "+kind))
		return
	}
	a, err := h.gen.Latest(r.Context(), kind, r.URL.Query().Get("subject"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, a)
}
