package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/platform"
	"github.com/iconidentify/clipgrab/internal/proxyclient"
	"github.com/iconidentify/clipgrab/internal/relay"
	"github.com/iconidentify/clipgrab/internal/repository"
	"github.com/iconidentify/clipgrab/internal/service"
)

// app is one CLI session: its entitlement, search state and download slot.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	settings    *repository.SQLiteSettingsRepository
	entitlement *service.EntitlementService
	registry    *platform.Registry
	remote      *proxyclient.Client
	session     *service.Session
	search      *service.SearchService
	downloads   *service.DownloadService
}

func newApp(ctx context.Context, opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.serverURL != "" {
		cfg.Client.ProxyURL = opts.serverURL
	}
	if opts.downloadDir != "" {
		cfg.Download.Dir = opts.downloadDir
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings, err := repository.NewSQLiteSettingsRepository(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}

	entitlement := service.NewEntitlementService(settings, logger)
	if err := entitlement.Load(ctx); err != nil {
		settings.Close()
		return nil, err
	}

	a := &app{
		cfg:         cfg,
		logger:      logger,
		settings:    settings,
		entitlement: entitlement,
		registry:    platform.NewRegistry(cfg.Platforms),
	}

	var client service.RelayClient
	if opts.local {
		client = relay.NewLocal(relay.New(cfg.Relay, logger))
	} else {
		a.remote = proxyclient.New(cfg.Client)
		client = a.remote
	}

	a.search = service.NewSearchService(a.registry, client, entitlement, logger)
	a.session = service.NewSession(a.search)
	a.downloads = service.NewDownloadService(client, afero.NewOsFs(), cfg.Download, logger)
	return a, nil
}

func (a *app) Close() error {
	return a.settings.Close()
}
