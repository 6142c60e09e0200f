// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/events"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/state"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
)

// ClientServices wires the sync engine of one client process.
type ClientServices struct {
	Gateway adapter.Gateway
	Bus     *events.Bus
	Store   *state.Store
	State   *SyncStateMachine
	Queue   *OfflineQueue
	Sync    *SyncService
	Profile *ProfileService

	detach func()
}

// NewClientServices builds the channels of every collection, binds them to
// st and subscribes st to their updates. online seeds the sync state.
func NewClientServices(gateway adapter.Gateway, kv store.KeyValueRepository, st *state.Store,
	cfg config.ClientApp, online bool, log *logger.Logger) *ClientServices {
	bus := events.NewBus()
	machine := NewSyncStateMachine(online)
	queue := NewOfflineQueue(kv, machine, log)

	st.SetUserKey(gateway.UserID())
	detach := st.Attach(bus)

	channels := newChannels(gateway, queue, machine, bus, log)
	for _, ch := range channels {
		st.Bind(ch.Collection(), ch)
	}

	return &ClientServices{
		Gateway: gateway,
		Bus:     bus,
		Store:   st,
		State:   machine,
		Queue:   queue,
		Sync:    NewSyncService(gateway, machine, queue, channels, log),
		Profile: NewProfileService(gateway, kv, cfg.ProfileTimeout, log),
		detach:  detach,
	}
}

func newChannels(gateway adapter.Gateway, queue *OfflineQueue, machine *SyncStateMachine,
	bus *events.Bus, log *logger.Logger) []SyncChannel {
	return []SyncChannel{
		NewChannel(models.CollectionTransactions, TransactionMapper, gateway, queue, machine, bus, log),
		NewChannel(models.CollectionBills, BillMapper, gateway, queue, machine, bus, log),
		NewChannel(models.CollectionGoals, GoalMapper, gateway, queue, machine, bus, log),
		NewChannel(models.CollectionCategories, CategoryMapper, gateway, queue, machine, bus, log).
			WithSeed(seedCategories(gateway)),
		NewChannel(models.CollectionClients, ClientMapper, gateway, queue, machine, bus, log),
		NewChannel(models.CollectionProducts, ProductMapper, gateway, queue, machine, bus, log),
		NewChannel(models.CollectionQuotes, QuoteMapper, gateway, queue, machine, bus, log),
		NewChannel(models.CollectionLoans, LoanMapper, gateway, queue, machine, bus, log),
		NewChannel(models.CollectionBusinessBudgets, BudgetMapper, gateway, queue, machine, bus, log),
	}
}

// Close stops syncing and releases every subscription.
func (s *ClientServices) Close() {
	s.Sync.Stop()
	if s.detach != nil {
		s.detach()
	}
	s.State.Close()
}
