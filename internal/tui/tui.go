// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/state"
	"github.com/MKhiriev/go-fin-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

// SyncController is the part of the sync service the monitor drives.
type SyncController interface {
	State() models.SyncState
	QueueLen() int
	RetrySync(ctx context.Context) error
	OnSyncStateChange(cb service.StateObserver) func()
}

// CollectionSource reports collection sizes and their changes.
type CollectionSource interface {
	Count(collection models.Collection) int
	Subscribe(collection models.Collection, fn state.Listener) func()
}

// TUI is the terminal sync status monitor.
type TUI struct {
	sync        SyncController
	collections CollectionSource
	build       models.AppBuildInfo

	logger *logger.Logger
}

func New(sync SyncController, collections CollectionSource, build models.AppBuildInfo, log *logger.Logger) *TUI {
	return &TUI{sync: sync, collections: collections, build: build, logger: log}
}

// Run shows the monitor until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	model := newMonitorModel(ctx, t.sync, t.build)
	model.counts = countAll(t.collections)
	model.refreshRows()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	stop := watch(ctx, t.sync, t.collections, p.Send)
	defer stop()

	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		t.logger.Debug().Msg("status monitor stopped by context")
		return nil
	}
	return err
}

func countAll(collections CollectionSource) map[models.Collection]int {
	out := make(map[models.Collection]int)
	for _, c := range models.AllCollections() {
		out[c] = collections.Count(c)
	}
	return out
}
