package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appcfg "github.com/kvistberg/chess-table/internal/config"
	"github.com/kvistberg/chess-table/internal/notify"
	"github.com/kvistberg/chess-table/internal/obslog"
	"github.com/kvistberg/chess-table/internal/render"
	"github.com/kvistberg/chess-table/internal/replay"
	"github.com/kvistberg/chess-table/internal/rules"
	"github.com/kvistberg/chess-table/internal/session"
	"github.com/kvistberg/chess-table/internal/theme"
	"github.com/kvistberg/chess-table/internal/web"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	th, err := theme.New(cfg.ThemeDir)
	if err != nil {
		obslog.L().Fatal("theme init error", zap.Error(err))
	}

	// Optional archive mirrors: each is skipped when unconfigured.
	var stores []replay.Store
	var redisStore *replay.RedisStore
	if cfg.RedisURL != "" {
		redisStore, err = replay.NewRedisStore(cfg.RedisURL)
		if err != nil {
			obslog.L().Fatal("redis init error", zap.Error(err))
		}
		stores = append(stores, redisStore)
	}
	var repo *replay.Repository
	if cfg.DatabaseURL != "" {
		repo, err = replay.NewRepository(cfg.DatabaseURL)
		if err != nil {
			obslog.L().Fatal("repository init error", zap.Error(err))
		}
		stores = append(stores, repo)
	}

	catalog := replay.NewCatalog(stores...)
	engine := rules.NewEngine()
	ctrl := session.NewController(engine, catalog)

	webhook := notify.NewWebhook(cfg.WebhookURL)
	if webhook.Enabled() {
		ctrl.OnTerminal(func(rec replay.GameRecord) {
			go webhook.GameOver(context.Background(), rec)
		})
	}

	renderer := render.New(th, cfg.BoardPixels)
	srv := web.NewServer(cfg.ListenAddr, ctrl, renderer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		obslog.L().Fatal("server error", zap.Error(err))
	}

	if redisStore != nil {
		_ = redisStore.Close()
	}
	if repo != nil {
		_ = repo.Close()
	}
	obslog.L().Info("shutdown complete")
}
