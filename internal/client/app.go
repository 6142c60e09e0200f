// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/state"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/internal/tui"
	"github.com/MKhiriev/go-fin-sync/internal/workers"
	"github.com/MKhiriev/go-fin-sync/models"
)

// initialProbeTimeout bounds the connectivity check made before the sync
// state machine is created.
const initialProbeTimeout = 5 * time.Second

type App struct {
	services *service.ClientServices
	workers  *workers.Workers
	view     StatusView
	closers  []io.Closer

	logger *logger.Logger
}

// NewApp opens local storage, connects the gateway to the remote store and
// builds the sync engine, the workers and the status monitor.
func NewApp(ctx context.Context, cfg *config.ClientConfig, build models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create remote store: %w", err)
	}

	userID, err := adapter.UserIDFromToken(cfg.Adapter.Token)
	if err != nil {
		_ = storages.Close()
		return nil, err
	}

	gateway := adapter.SharedGateway(remote, cfg.Adapter.MaxConcurrentRequests, userID, log)
	services := service.NewClientServices(gateway, storages.KeyValue, state.Shared(), cfg.App, probe(ctx, gateway), log)

	app := newApp(services, cfg.Workers, log)
	app.view = tui.New(services.Sync, services.Store, build, log)
	app.closers = append(app.closers, storages)

	return app, nil
}

// newApp wires the workers around already built services.
func newApp(services *service.ClientServices, cfg config.ClientWorkers, log *logger.Logger) *App {
	return &App{
		services: services,
		workers: workers.NewWorkers(
			workers.NewConnectivityMonitor(services.Gateway, services.Sync, cfg.ProbeInterval, log),
			workers.NewRefreshJob(services.Sync, cfg.RefreshInterval, log),
		),
		logger: log,
	}
}

func probe(ctx context.Context, pinger workers.Pinger) bool {
	ctx, cancel := context.WithTimeout(ctx, initialProbeTimeout)
	defer cancel()
	return pinger.Ping(ctx) == nil
}

// Run starts syncing and shows the status monitor until the user quits or
// the process receives SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	log := a.logger.With().Str("func", "*App.run").Logger()
	defer a.close()

	if err := a.services.Sync.Start(ctx); err != nil {
		return fmt.Errorf("start sync: %w", err)
	}

	if profile, err := a.services.Profile.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("profile is not loaded")
	} else {
		log.Info().Str("display_name", profile.DisplayName).Msg("profile loaded")
	}

	ctx, cancel := context.WithCancel(ctx)
	a.workers.Run(ctx)

	err := a.view.Run(ctx)

	cancel()
	a.workers.Wait()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) close() {
	a.services.Close()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Err(err).Msg("error closing client resources")
		}
	}
}
