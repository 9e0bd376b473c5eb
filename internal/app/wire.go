package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teamdesk/platform/internal/auth"
	"github.com/teamdesk/platform/internal/guard"
	"github.com/teamdesk/platform/internal/handler"
	"github.com/teamdesk/platform/internal/projection"
	"github.com/teamdesk/platform/internal/report"
	"github.com/teamdesk/platform/internal/repository"
	"github.com/teamdesk/platform/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Store       repository.TableStore
	Projections projection.Store
	Canvas      report.Canvas
	Events      service.EventPublisher
	JWTMgr      *auth.JWTManager
	Logger      *slog.Logger

	Backend   string
	Health    func(context.Context) error
	AssetsDir string
	Report    report.GeneratorConfig
	// ReportLimiter throttles report generation per caller and kind; nil
	// disables it.
	ReportLimiter *guard.ReportLimiter
}

// NewGenerator builds the report generator over store.
func NewGenerator(deps RouterDeps) *report.Generator {
	snapshots := service.NewSnapshotLoader(deps.Store, deps.Logger)
	return report.NewGenerator(snapshots, deps.Canvas, deps.Projections, deps.Events, deps.Report, deps.Logger)
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	store := deps.Store
	events := deps.Events
	logger := deps.Logger

	// Guards
	matchIdem := guard.NewIdempotencyGuard()
	fixtureIdem := guard.NewIdempotencyGuard()

	// Services
	rosterSvc := service.NewRosterService(store, events, logger)
	attendanceSvc := service.NewAttendanceService(store, events, logger)
	evaluationSvc := service.NewEvaluationService(store, events, logger)
	matchSvc := service.NewMatchService(store, matchIdem, events, logger)
	fixtureSvc := service.NewFixtureService(store, fixtureIdem, events, logger)
	snapshots := service.NewSnapshotLoader(store, logger)

	// Handlers
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	evaluationHandler := handler.NewEvaluationHandler(evaluationSvc)
	matchHandler := handler.NewMatchHandler(matchSvc)
	fixtureHandler := handler.NewFixtureHandler(fixtureSvc)
	statsHandler := handler.NewStatsHandler(snapshots)
	reportHandler := handler.NewReportHandler(NewGenerator(deps))
	activityHandler := handler.NewActivityHandler(deps.Projections)

	writer := auth.RequireRole(auth.WriteRoles()...)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(deps.Backend, deps.Health))

	// Generated report artifacts (no auth, file names are unguessable timestamps)
	if deps.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(deps.AssetsDir))))
	}

	// Token-authenticated routes; reads are open to every role
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(deps.JWTMgr))

		r.Get("/activity", activityHandler.Recent)

		r.Route("/roster", func(r chi.Router) {
			r.Get("/", rosterHandler.List)
			r.With(writer).Put("/{nationalID}", rosterHandler.Save)
		})

		r.Route("/attendance/{date}", func(r chi.Router) {
			r.Get("/", attendanceHandler.Get)
			r.With(writer).Put("/", attendanceHandler.Put)
			r.With(writer).Delete("/", attendanceHandler.Delete)
		})

		r.Route("/evaluations", func(r chi.Router) {
			r.Get("/{year}/{month}/progress", evaluationHandler.Progress)
			r.With(writer).Put("/{nationalID}/{year}/{month}", evaluationHandler.Upsert)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.List)
			r.With(writer).Post("/", matchHandler.Record)
			r.With(writer).Delete("/{key}", matchHandler.Delete)
		})

		r.Route("/fixtures", func(r chi.Router) {
			r.Get("/", fixtureHandler.List)
			r.Get("/opponents", fixtureHandler.Opponents)
			r.Get("/calendar/{year}/{month}", fixtureHandler.Calendar)
			r.With(writer).Post("/", fixtureHandler.Add)
			r.With(writer).Put("/{key}", fixtureHandler.Edit)
			r.With(writer).Delete("/{key}", fixtureHandler.Delete)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/attendance/{year}", statsHandler.Attendance)
			r.Get("/scorers", statsHandler.Scorers)
			r.Get("/team/{year}/{month}", statsHandler.Team)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/latest/{kind}", reportHandler.Latest)

			r.Group(func(r chi.Router) {
				r.Use(writer)
				limit := func(kind string) func(http.Handler) http.Handler {
					if deps.ReportLimiter == nil {
						return func(next http.Handler) http.Handler { return next }
					}
					return handler.ReportRateLimit(deps.ReportLimiter, kind, logger)
				}
				r.With(limit(report.ReportFormation)).Post("/formation", reportHandler.Formation)
				r.With(limit(report.ReportDossier)).Post("/players/{nationalID}/dossier", reportHandler.Dossier)
				r.With(limit(report.ReportMonthly)).Post("/attendance/{year}/{month}", reportHandler.Monthly)
				r.With(limit(report.ReportSquad)).Post("/squad", reportHandler.Squad)
				r.With(limit(report.ReportResults)).Post("/results", reportHandler.Results)
			})
		})
	})

	return r
}
