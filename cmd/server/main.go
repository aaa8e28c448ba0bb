package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"reien/config"
	"reien/database"
	"reien/pkg/inventory"
	"reien/pkg/logging"
	"reien/router"

	// Inventory
	invCtrlImp "reien/pkg/inventory/controllerImp"
	"reien/pkg/inventory/remote"
	"reien/pkg/inventory/repository"
	invRepoImp "reien/pkg/inventory/repositoryImp"
	svc "reien/pkg/inventory/service"
	invSvcImp "reien/pkg/inventory/serviceImp"

	// Health
	healthCtrlImp "reien/pkg/health/controllerImp"
)

func main() {
	// 1) Config + logger
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		time.Local = loc
	} else {
		log.Warn("unknown timezone, keeping local", "tz", cfg.Timezone, "err", err)
	}
	log.Info("config loaded", "cfg", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2) Snapshot store (db mode only)
	var (
		db   *gorm.DB
		repo repository.InventoryRepository
	)
	if cfg.InventorySource == svc.ModeDB {
		var err error
		db, err = database.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Error("open database", "path", cfg.DBPath, "err", err)
			os.Exit(1)
		}
		repo = invRepoImp.New(db)
	}

	// 3) Remote source (remote mode only)
	var src inventory.Source
	if cfg.InventorySource == svc.ModeRemote {
		src = remote.New(cfg.APIURL, cfg.APIKey, cfg.APITimeout)
	}

	invSvc := invSvcImp.New(cfg.InventorySource, repo, src, log)
	if repo != nil && cfg.SeedOnStart {
		seedIfEmpty(ctx, log, repo, invSvc)
	}

	// 4) Echo + routes
	e := router.New(
		echo.New(),
		log,
		invCtrlImp.New(invSvc, log),
		healthCtrlImp.NewHealthCtrl(db, invSvc),
	)

	// 5) Start
	go func() {
		log.Info("listening", "port", cfg.Port, "mode", invSvc.Mode())
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

func seedIfEmpty(ctx context.Context, log *slog.Logger, repo repository.InventoryRepository, s svc.InventoryService) {
	plots, areas, err := repo.Counts(ctx)
	if err != nil {
		log.Error("count stored rows", "err", err)
		return
	}
	if plots > 0 || areas > 0 {
		log.Info("snapshot present, skipping seed", "plots", plots, "plots_by_area", areas)
		return
	}
	if _, err := s.Seed(ctx); err != nil {
		log.Error("seed", "err", err)
	}
}
