package main

import (
	"context"
	"fmt"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/config"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/handler"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/server"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/service"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/workers"
	"github.com/andres-sumihe/workspace-organizer-sub004/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	ctx := context.Background()

	log := logger.NewLogger("workspace-organizer")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	if cfg.MigrateShared {
		migrateShared(ctx, cfg, log)
		return
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(ctx, storages, *cfg, log)

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	backgroundWorkers := workers.NewWorkers(storages, cfg.Workers, log)
	backgroundWorkers.Run()

	srv, err := server.NewServer(handlers, cfg.Server, log,
		backgroundWorkers.Stop,
		services.VaultService.Lock,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// migrateShared applies the shared-store migrations and exits. Run only on
// explicit operator request via -migrate-shared.
func migrateShared(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) {
	if cfg.Storage.Shared.DSN == "" {
		log.Fatal().Msg("-migrate-shared requires a shared store DSN")
	}

	db, err := store.NewConnectShared(ctx, cfg.Storage.Shared, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting shared store")
	}
	defer db.Close()

	if err = migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error migrating shared store")
	}

	log.Info().Msg("shared store migrations applied")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
