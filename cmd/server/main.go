package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/clipgrab/internal/api"
	"github.com/iconidentify/clipgrab/internal/api/handler"
	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/platform"
	"github.com/iconidentify/clipgrab/internal/relay"
	"github.com/iconidentify/clipgrab/internal/repository"
	"github.com/iconidentify/clipgrab/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("clipgrab-server %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting clipgrab server",
		"version", Version,
		"build_time", BuildTime,
	)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	settings, err := repository.NewSQLiteSettingsRepository(cfg.Storage.DataDir)
	if err != nil {
		logger.Error("failed to open settings store", "error", err)
		os.Exit(1)
	}
	defer settings.Close()

	entitlement := service.NewEntitlementService(settings, logger)
	if err := entitlement.Load(context.Background()); err != nil {
		logger.Error("failed to load entitlement", "error", err)
		os.Exit(1)
	}

	rl := relay.New(cfg.Relay, logger)
	registry := platform.NewRegistry(cfg.Platforms)
	search := service.NewSearchService(registry, relay.NewLocal(rl), entitlement, logger)

	router := api.NewRouter(api.Handlers{
		Proxy:       handler.NewProxyHandler(rl, logger),
		Resolve:     handler.NewResolveHandler(search, registry, logger),
		Entitlement: handler.NewEntitlementHandler(entitlement, logger),
		Health:      handler.NewHealthHandler(settings, cfg.Storage.DataDir),
		UI:          handler.NewUIHandler(),
	}, cfg.Server.APIKey, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr, "platform_api", cfg.Platforms.BaseURL)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
