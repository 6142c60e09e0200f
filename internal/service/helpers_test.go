// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/events"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/state"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

// stubGateway отвечает на вызовы через функцию call и запоминает операции
type stubGateway struct {
	mu     sync.Mutex
	userID string
	ops    []models.RemoteOperation
	call   func(ctx context.Context, op models.RemoteOperation) models.RemoteResult
}

func newStubGateway(call func(ctx context.Context, op models.RemoteOperation) models.RemoteResult) *stubGateway {
	return &stubGateway{userID: testUser, call: call}
}

func (g *stubGateway) Call(ctx context.Context, op models.RemoteOperation) models.RemoteResult {
	g.mu.Lock()
	g.ops = append(g.ops, op)
	g.mu.Unlock()
	return g.call(ctx, op)
}

func (g *stubGateway) SubscribeToChanges(context.Context, string, string, func(models.ChangeEvent)) (func(), error) {
	return func() {}, nil
}

func (g *stubGateway) Ping(context.Context) error { return nil }

func (g *stubGateway) UserID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.userID
}

func (g *stubGateway) SetUserID(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.userID = userID
}

func (g *stubGateway) count(kind models.QueryKind) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, op := range g.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func rawRows(rows ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, json.RawMessage(r))
	}
	return out
}

// channelFixture собирает один канал поверх заданного шлюза
type channelFixture[T models.Record] struct {
	channel *Channel[T]
	queue   *OfflineQueue
	machine *SyncStateMachine
	store   *state.Store
	kv      *store.MemoryKeyValueRepository
}

func newChannelFixture[T models.Record](t *testing.T, gw adapter.Gateway, collection models.Collection,
	mapper RowMapper[T], online bool) channelFixture[T] {
	t.Helper()

	kv := store.NewMemoryKeyValueRepository()
	machine := NewSyncStateMachine(online)
	queue := NewOfflineQueue(kv, machine, logger.Nop())
	queue.Load(context.Background(), gw.UserID())
	bus := events.NewBus()
	st := state.New()
	st.SetUserKey(gw.UserID())
	st.Attach(bus)

	ch := NewChannel(collection, mapper, gw, queue, machine, bus, logger.Nop())
	queue.Register(ch)
	st.Bind(collection, ch)
	t.Cleanup(ch.Stop)

	return channelFixture[T]{channel: ch, queue: queue, machine: machine, store: st, kv: kv}
}

// newSession поднимает полноценный клиент поверх общего удалённого хранилища
func newSession(t *testing.T, mem *adapter.MemoryRemoteStore, online bool) *ClientServices {
	t.Helper()

	gw := adapter.NewGateway(mem, adapter.DefaultMaxConcurrent, testUser, logger.Nop())
	svcs := NewClientServices(gw, store.NewMemoryKeyValueRepository(), state.New(), config.ClientApp{}, online, logger.Nop())
	require.NoError(t, svcs.Sync.Start(context.Background()))
	t.Cleanup(svcs.Close)

	return svcs
}
