package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floatingpurr/covid-19-ita-bot/internal/api"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/config"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/logger"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store"
	"github.com/floatingpurr/covid-19-ita-bot/internal/scheduler"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/notify"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/report"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/snapshot"
	"github.com/floatingpurr/covid-19-ita-bot/internal/transport/telegram"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		_ = logger.Init(false)
		logger.Fatal(ctx, err)
	}

	if err := logger.Init(cfg.Production()); err != nil {
		panic(err)
	}
	defer logger.Sync()

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	st := store.NewStore(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Fatal(ctx, err)
	}

	snapshotService := snapshot.NewService(snapshot.Sources{
		NationURL:    cfg.NationURL,
		RegionsURL:   cfg.RegionsURL,
		ProvincesURL: cfg.ProvincesURL,
	})
	reportService := report.NewService(st, snapshotService)
	broadcaster := telegram.NewClient(cfg.BotToken, cfg.OperatorChatID)
	notifyService := notify.NewService(st, reportService, broadcaster)

	sched := scheduler.New(reportService, notifyService)
	if err := sched.Register(cfg.RefreshSchedule, cfg.WeeklySchedule); err != nil {
		logger.Fatal(ctx, err)
	}
	sched.Start()

	apiService, err := api.NewAPIService(st, reportService, notifyService)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	go apiService.Serve(cfg.ListenAddr)
	logger.Infof(ctx, "listening on %s", cfg.ListenAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := apiService.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "api shutdown: %v", err)
	}
}
