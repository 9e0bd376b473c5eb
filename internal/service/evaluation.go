package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/teamdesk/platform/internal/aggregate"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/reconcile"
	"github.com/teamdesk/platform/internal/repository"
)

// EvaluationService records monthly skill evaluations.
type EvaluationService struct {
	store  repository.TableStore
	events EventPublisher
	logger *slog.Logger
}

// NewEvaluationService creates an EvaluationService.
func NewEvaluationService(store repository.TableStore, events EventPublisher, logger *slog.Logger) *EvaluationService {
	return &EvaluationService{store: store, events: events, logger: logger}
}

var scoreSpan = reconcile.Span{FirstColumn: repository.EvaluationFirstScoreCol, Width: domain.SkillCount}

// Upsert writes the player's scores for period. An existing row keeps its
// date and observation and only has its scores replaced; a new row is
// dated on the first day of the period and carries observation.
func (s *EvaluationService) Upsert(ctx context.Context, nationalID string, period domain.Period, scores domain.Scores, observation string) (reconcile.Outcome, error) {
	nationalID = strings.TrimSpace(nationalID)
	if err := domain.ValidateNationalID(nationalID); err != nil {
		return reconcile.Outcome{}, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidatePeriod(period); err != nil {
		return reconcile.Outcome{}, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateScores(scores); err != nil {
		return reconcile.Outcome{}, domain.ErrValidation(err.Error())
	}

	match := func(r repository.Row) bool {
		if r.Cell(repository.EvaluationNationalIDCol) != nationalID {
			return false
		}
		d, err := repository.ParseDate(r.Cell(repository.EvaluationDateCol))
		return err == nil && period.Contains(d)
	}
	newRow := repository.EncodeEvaluation(domain.SkillEvaluation{
		Period: period, NationalID: nationalID, Scores: scores, Observation: observation,
	})

	out, err := reconcile.FindOrAppend(ctx, s.store, repository.TableEvaluations, match, scoreSpan, repository.EvaluationScores(scores), newRow)
	if err != nil {
		return reconcile.Outcome{}, err
	}
	if out.Duplicates > 0 {
		s.logger.Warn("duplicate evaluation rows",
			"error", domain.ErrAmbiguousMatch(repository.TableEvaluations, nationalID+" "+period.String(), out.Duplicates+1),
			"position", out.Position,
		)
	}
	s.logger.Info("evaluation saved",
		"national_id", nationalID,
		"period", period.String(),
		"created", out.Created,
	)
	s.events.Publish(ctx, domain.NewEvaluationUpsertedEvent(nationalID, period, out.Created, out.Duplicates))
	return out, nil
}

// EvaluationProgress counts which active players have been evaluated in a
// period.
type EvaluationProgress struct {
	Period    domain.Period   `json:"period"`
	Evaluated int             `json:"evaluated"`
	Total     int             `json:"total"`
	Pending   []domain.Player `json:"pending"`
}

// Progress reports how many active players have an evaluation for period.
func (s *EvaluationService) Progress(ctx context.Context, period domain.Period) (EvaluationProgress, error) {
	if err := domain.ValidatePeriod(period); err != nil {
		return EvaluationProgress{}, domain.ErrValidation(err.Error())
	}
	roster, err := loadRoster(ctx, s.store, s.logger)
	if err != nil {
		return EvaluationProgress{}, err
	}
	evals, _, err := readTable(ctx, s.store, s.logger, repository.TableEvaluations, -1, repository.DecodeEvaluation)
	if err != nil {
		return EvaluationProgress{}, err
	}

	done := aggregate.Evaluated(evals, period)
	out := EvaluationProgress{Period: period, Pending: []domain.Player{}}
	for _, p := range roster.Active() {
		out.Total++
		if done[p.NationalID] {
			out.Evaluated++
		} else {
			out.Pending = append(out.Pending, p)
		}
	}
	return out, nil
}
