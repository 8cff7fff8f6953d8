package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/rabbitry/internal/config"
	"github.com/mamadbah2/rabbitry/internal/export"
	"github.com/mamadbah2/rabbitry/internal/repository/mongodb"
	"github.com/mamadbah2/rabbitry/internal/repository/sheets"
	"github.com/mamadbah2/rabbitry/internal/repository/sqlite"
	"github.com/mamadbah2/rabbitry/internal/scheduler"
	"github.com/mamadbah2/rabbitry/internal/server/handlers"
	"github.com/mamadbah2/rabbitry/internal/server/router"
	"github.com/mamadbah2/rabbitry/internal/service/bot"
	"github.com/mamadbah2/rabbitry/internal/service/commands"
	"github.com/mamadbah2/rabbitry/internal/service/reporting"
	"github.com/mamadbah2/rabbitry/pkg/clients/telegram"
	"github.com/mamadbah2/rabbitry/pkg/logger"
)

func main() {
	log := logger.Must(logger.New())
	defer log.Sync()
	zap.ReplaceGlobals(log)

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("configuration error", zap.Error(err))
	}

	store, err := sqlite.New(cfg.Database.Path, logger.Named(log, "sqlite"))
	if err != nil {
		log.Fatal("database error", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var archive mongodb.Repository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			log.Fatal("mongodb error", zap.Error(err))
		}
		defer mongoRepo.Close(context.Background())
		archive = mongoRepo
		log.Info("digest archive enabled")
	}

	var mirror sheets.Repository
	if cfg.Sheets.SpreadsheetID != "" {
		mirror, err = sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(log, "sheets"))
		if err != nil {
			log.Fatal("sheets error", zap.Error(err))
		}
		log.Info("spreadsheet mirror enabled")
	}

	reports := reporting.NewService(store, logger.Named(log, "reporting"))
	exporter := export.NewExporter(store, cfg.Telegram.ExportDir, logger.Named(log, "export"))
	dispatcher := commands.NewDispatcher(store, reports, exporter, mirror, logger.Named(log, "commands"))

	telegramClient := telegram.NewClient(cfg.Telegram)
	botService := bot.NewService(telegramClient, dispatcher, cfg.Telegram.OwnerChatID, logger.Named(log, "bot"))

	digestScheduler, err := scheduler.New(cfg.Digest.Timezone, store, reports, botService, archive, logger.Named(log, "scheduler"))
	if err != nil {
		log.Fatal("scheduler error", zap.Error(err))
	}
	if err := digestScheduler.Start(cfg.Digest.CronSchedule); err != nil {
		log.Fatal("scheduler error", zap.Error(err))
	}
	defer digestScheduler.Stop()

	webhook := handlers.NewWebhookHandler(botService, cfg.Telegram.WebhookSecret, logger.Named(log, "webhook"))
	engine := router.Setup(webhook, logger.Named(log, "http"))

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
