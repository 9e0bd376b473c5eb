package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/teamdesk/platform/internal/app"
	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/infra"
	"github.com/teamdesk/platform/internal/projection"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("event consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.StoreBackend != infra.BackendPostgres {
		logger.Warn("activity feed is only shared with the api on the postgres backend", "backend", cfg.StoreBackend)
	}

	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	topics := make([]string, len(domain.EventTypes))
	for i, t := range domain.EventTypes {
		topics[i] = string(t)
	}
	consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, topics, cfg.KafkaGroupID, cfg.KafkaEnabled, logger)
	defer consumer.Close()
	if !consumer.Enabled() {
		return errors.New("kafka is disabled; set KAFKA_ENABLED=true")
	}

	logger.Info("event consumer starting", "topics", len(topics), "group", cfg.KafkaGroupID)
	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("event consumer shutting down")
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		var draft domain.EventDraft
		if err := json.Unmarshal(msg.Value, &draft); err != nil {
			logger.Warn("skipping undecodable event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
			continue
		}
		added, err := projection.RecordActivity(ctx, backend.Projections, projection.ActivityFromEvent(draft), projection.ActivityLimit)
		if err != nil {
			logger.Error("record activity", "event_id", draft.EventID, "error", err)
			continue
		}
		logger.Info("event consumed",
			"event_id", draft.EventID,
			"event_type", draft.EventType,
			"aggregate_id", draft.AggregateID,
			"added", added,
		)
	}
}
