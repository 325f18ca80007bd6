// Package app wires repositories and services for the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/metrics"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/storage"
)

type App struct {
	Events   services.LeagueEventService
	Exporter services.StandingsExporter
}

// Build собирает сервисы поверх открытого соединения.
// broadcaster может быть nil (CLI не держит websocket-клиентов).
func Build(ctx context.Context, cfg *config.Config, dbConn *sql.DB, broadcaster services.RoomBroadcaster, m metrics.Metrics, logger *slog.Logger) (*App, error) {
	uploader, err := newUploader(ctx, cfg.R2)
	if err != nil {
		return nil, err
	}
	if uploader == nil {
		logger.Info("R2 is not configured, standings export disabled")
	}

	instanceRepo := repositories.NewPostgresLeagueInstanceRepository(dbConn)
	eventRepo := repositories.NewPostgresLeagueEventRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	matchRepo := repositories.NewPostgresGroupMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresGroupStandingRepository(dbConn)

	standings := services.NewStandingsService(groupRepo, matchRepo, standingRepo, cfg.AdvancementSlots, logger)
	events := services.NewLeagueEventService(
		services.NewTxRunner(dbConn, logger),
		instanceRepo,
		eventRepo,
		groupRepo,
		matchRepo,
		standingRepo,
		services.NewGroupComposer(brackets.NewRoundRobinGenerator(), logger),
		services.NewMatchLedger(matchRepo),
		standings,
		broadcaster,
		m,
		logger,
	)

	return &App{
		Events:   events,
		Exporter: services.NewStandingsExporter(events, uploader, logger),
	}, nil
}

// newUploader возвращает nil без ошибки, если R2 не настроен.
func newUploader(ctx context.Context, cfg config.R2Config) (storage.FileUploader, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.AccountID,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		BucketName:      cfg.BucketName,
		PublicBaseURL:   cfg.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
	}
	return uploader, nil
}
