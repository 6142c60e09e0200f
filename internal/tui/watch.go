// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-fin-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

// watch forwards sync state and collection changes to send. Notifications
// are coalesced: the callbacks only mark the view dirty, and a single
// goroutine reads fresh values and sends them, so neither the state machine
// nor the store ever waits on the UI.
func watch(ctx context.Context, syncer SyncController, collections CollectionSource, send func(tea.Msg)) (stop func()) {
	dirty := make(chan struct{}, 1)
	mark := func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	}

	unsubs := []func(){syncer.OnSyncStateChange(func(models.SyncState) { mark() })}
	for _, c := range models.AllCollections() {
		unsubs = append(unsubs, collections.Subscribe(c, func([]models.Record) { mark() }))
	}
	// changes before the subscriptions
	mark()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-dirty:
				send(stateMsg{state: syncer.State(), queueLen: syncer.QueueLen()})
				send(countsMsg{counts: countAll(collections)})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, unsub := range unsubs {
				unsub()
			}
			close(done)
			wg.Wait()
		})
	}
}
