package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/teamdesk/platform/internal/app"
	"github.com/teamdesk/platform/internal/auth"
	"github.com/teamdesk/platform/internal/canvas"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/infra"
	"github.com/teamdesk/platform/internal/migration"
	"github.com/teamdesk/platform/internal/report"
	"github.com/teamdesk/platform/internal/service"
)

type options struct {
	kind     string
	year     int
	month    int
	player   string
	scheme   string
	match    string
	fixture  string
	lineup   string
	token    string
	subject  string
	backfill bool
}

// lineupFile is the JSON accepted by -lineup.
type lineupFile struct {
	Assignment domain.Assignment `json:"assignment"`
	Absences   []domain.Absence  `json:"absences"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	now := time.Now()
	var opts options
	flag.StringVar(&opts.kind, "kind", "", "report kind: formation, dossier, monthly, squad or results")
	flag.IntVar(&opts.year, "year", now.Year(), "season year")
	flag.IntVar(&opts.month, "month", int(now.Month()), "month for the monthly report")
	flag.StringVar(&opts.player, "player", "", "national id for the dossier report")
	flag.StringVar(&opts.scheme, "scheme", "4-3-3", "formation scheme")
	flag.StringVar(&opts.match, "match", "", "match label for the formation report")
	flag.StringVar(&opts.fixture, "fixture", "", "fixture key to take the formation match label from")
	flag.StringVar(&opts.lineup, "lineup", "", "JSON file with the formation assignment and absences")
	flag.StringVar(&opts.token, "token", "", "print a signed API token for this role instead of generating a report")
	flag.StringVar(&opts.subject, "subject", "local", "token subject")
	flag.BoolVar(&opts.backfill, "backfill", false, "write missing match and fixture keys before generating")
	flag.Parse()

	if err := run(logger, opts); err != nil {
		logger.Error("reportgen failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.token != "" {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry).GenerateToken(opts.subject, opts.token, cfg.Category)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		fmt.Println(token)
		return nil
	}

	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	if opts.backfill {
		n, err := migration.NewKeyBackfiller(backend.Store, logger).BackfillAll(ctx)
		if err != nil {
			return fmt.Errorf("backfill keys: %w", err)
		}
		logger.Info("keys backfilled", "rows", n)
	}

	fileCanvas, err := canvas.NewFileCanvas(cfg.AssetsDir)
	if err != nil {
		return fmt.Errorf("open canvas: %w", err)
	}
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	gen := app.NewGenerator(app.RouterDeps{
		Store:       backend.Store,
		Projections: backend.Projections,
		Canvas:      fileCanvas,
		Events:      service.NewEventPublisher(producer, logger),
		Logger:      logger,
		Report:      report.GeneratorConfig{Club: cfg.ClubName, Category: cfg.Category},
	})

	res, err := generate(ctx, gen, opts)
	if err != nil {
		return err
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

func generate(ctx context.Context, gen *report.Generator, opts options) (report.Result, error) {
	switch opts.kind {
	case report.ReportFormation:
		req := report.FormationRequest{Match: opts.match, Scheme: opts.scheme}
		if opts.fixture != "" {
			key, err := uuid.Parse(opts.fixture)
			if err != nil {
				return report.Result{}, fmt.Errorf("parse fixture key: %w", err)
			}
			req.FixtureKey = key
		}
		if opts.lineup != "" {
			data, err := os.ReadFile(opts.lineup)
			if err != nil {
				return report.Result{}, fmt.Errorf("read lineup: %w", err)
			}
			var lf lineupFile
			if err := json.Unmarshal(data, &lf); err != nil {
				return report.Result{}, fmt.Errorf("decode lineup: %w", err)
			}
			req.Assignment, req.Absences = lf.Assignment, lf.Absences
		}
		return gen.Formation(ctx, req), nil
	case report.ReportDossier:
		if opts.player == "" {
			return report.Result{}, errors.New("-player is required for the dossier report")
		}
		return gen.Dossier(ctx, opts.player, opts.year), nil
	case report.ReportMonthly:
		return gen.Monthly(ctx, opts.year, time.Month(opts.month)), nil
	case report.ReportSquad:
		return gen.Squad(ctx, opts.year), nil
	case report.ReportResults:
		return gen.Results(ctx), nil
	}
	return report.Result{}, fmt.Errorf("unknown -kind %q", opts.kind)
}
