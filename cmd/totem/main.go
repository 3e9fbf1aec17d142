package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	httpapi "totem/internal/http"
	"totem/internal/platform/config"
	"totem/internal/platform/httpserver"
	"totem/internal/platform/logger"
	"totem/internal/platform/middleware"
	"totem/internal/promoter"
	promoterhandler "totem/internal/promoter/handler"
	"totem/internal/tabletconfig"
	confighandler "totem/internal/tabletconfig/handler"
	configstore "totem/internal/tabletconfig/store"
	"totem/internal/verification"
	"totem/internal/verification/backend"
	kioskhandler "totem/internal/verification/handler"
	vmetrics "totem/internal/verification/metrics"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		log.Error("could not open device database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	settingsStore, err := configstore.NewSQLite(db)
	if err != nil {
		log.Error("could not initialize settings store", "error", err)
		os.Exit(1)
	}

	settings, err := tabletconfig.NewService(settingsStore, log)
	if err != nil {
		log.Error("could not build settings service", "error", err)
		os.Exit(1)
	}
	if err := settings.EnsureDefaults(context.Background()); err != nil {
		log.Error("could not seed default settings", "error", err)
		os.Exit(1)
	}

	modeHolder := promoter.NewModeHolder()
	issuer := promoter.NewTokenIssuer(cfg.JWTSigningKey, cfg.SessionTTL)
	promoterSvc, err := promoter.NewService(settings, issuer, modeHolder, log)
	if err != nil {
		log.Error("could not build promoter service", "error", err)
		os.Exit(1)
	}

	backendClient := backend.New(backend.WithLogger(log))
	workflow, err := verification.NewWorkflow(backendClient, settings, modeHolder,
		verification.WithLogger(log),
		verification.WithMetrics(vmetrics.New()),
	)
	if err != nil {
		log.Error("could not build verification workflow", "error", err)
		os.Exit(1)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Kiosk:    kioskhandler.New(workflow, log),
		Promoter: promoterhandler.New(promoterSvc, log),
		Config:   confighandler.New(settings, log),
		Gate:     middleware.RequirePromoter(issuer, log),
		Logger:   log,
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting totem agent", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("agent stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("agent stopped")
}
