// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryGateway(mem *adapter.MemoryRemoteStore) adapter.Gateway {
	return adapter.NewGateway(mem, adapter.DefaultMaxConcurrent, testUser, logger.Nop())
}

// ── FetchAndUpdate ───────────────────────────────────────────────────────────

func TestChannel_FetchReplacesListWithUserRows(t *testing.T) {
	ctx := context.Background()
	mem := adapter.NewMemoryRemoteStore()
	_, err := mem.Upsert(ctx, "bills", testUser, rawRows(`{"id":"b1","name":"Rent","amount":1000}`, `{"id":"b2","name":"Power","amount":80}`))
	require.NoError(t, err)
	_, err = mem.Upsert(ctx, "bills", "user-2", rawRows(`{"id":"x1","name":"Foreign","amount":1}`))
	require.NoError(t, err)

	fx := newChannelFixture(t, newMemoryGateway(mem), models.CollectionBills, BillMapper, true)
	fx.store.SetSyncData(models.CollectionBills, []models.Record{models.Bill{ID: "stale"}})

	require.NoError(t, fx.channel.FetchAndUpdate(ctx))

	bills := fx.store.Bills()
	require.Len(t, bills, 2)
	assert.Equal(t, "b1", bills[0].ID)
	assert.Equal(t, "b2", bills[1].ID)

	st := fx.machine.State()
	assert.False(t, st.IsSyncing)
	assert.Equal(t, models.PhaseIdle, st.Phase)
	assert.NotNil(t, st.LastSyncTime)
}

func TestChannel_FetchFailureKeepsList(t *testing.T) {
	gw := newStubGateway(func(context.Context, models.RemoteOperation) models.RemoteResult {
		return models.RemoteResult{Err: adapter.ErrUnavailable}
	})
	fx := newChannelFixture(t, gw, models.CollectionBills, BillMapper, true)
	fx.store.SetSyncData(models.CollectionBills, []models.Record{models.Bill{ID: "b1"}})

	err := fx.channel.FetchAndUpdate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrUnavailable)

	assert.Len(t, fx.store.Bills(), 1)
	st := fx.machine.State()
	assert.False(t, st.IsSyncing)
	assert.Equal(t, models.PhaseError, st.Phase)
}

// Отменённый fetch не считается ни ошибкой, ни успешной синхронизацией
func TestChannel_CancelledFetchRecordsNoOutcome(t *testing.T) {
	gw := newStubGateway(func(ctx context.Context, _ models.RemoteOperation) models.RemoteResult {
		return models.RemoteResult{Err: ctx.Err()}
	})
	fx := newChannelFixture(t, gw, models.CollectionBills, BillMapper, true)
	fx.store.SetSyncData(models.CollectionBills, []models.Record{models.Bill{ID: "b1"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fx.channel.FetchAndUpdate(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Len(t, fx.store.Bills(), 1)
	st := fx.machine.State()
	assert.False(t, st.IsSyncing)
	assert.Nil(t, st.LastSyncTime)
	assert.Nil(t, st.SyncError)
	assert.Equal(t, models.PhaseIdle, st.Phase)
}

func TestChannel_FetchSkipsUndecodableRows(t *testing.T) {
	gw := newStubGateway(func(context.Context, models.RemoteOperation) models.RemoteResult {
		return models.RemoteResult{Data: rawRows(`{"id":"l1","principal":100}`, `{"id":`, `{"principal":5}`)}
	})
	fx := newChannelFixture(t, gw, models.CollectionLoans, LoanMapper, true)

	require.NoError(t, fx.channel.FetchAndUpdate(context.Background()))

	loans := fx.store.Loans()
	require.Len(t, loans, 1)
	assert.Equal(t, "l1", loans[0].ID)
}

func TestChannel_StaleFetchIsDropped(t *testing.T) {
	var calls atomic.Int32
	blocked := make(chan struct{})
	release := make(chan struct{})

	gw := newStubGateway(func(context.Context, models.RemoteOperation) models.RemoteResult {
		if calls.Add(1) == 1 {
			close(blocked)
			<-release
			return models.RemoteResult{Data: rawRows(`{"id":"b-old","name":"Old"}`)}
		}
		return models.RemoteResult{Data: rawRows(`{"id":"b-new","name":"New"}`)}
	})
	fx := newChannelFixture(t, gw, models.CollectionBills, BillMapper, true)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- fx.channel.FetchAndUpdate(ctx) }()
	<-blocked

	require.NoError(t, fx.channel.FetchAndUpdate(ctx))
	close(release)
	require.NoError(t, <-done)

	bills := fx.store.Bills()
	require.Len(t, bills, 1)
	assert.Equal(t, "b-new", bills[0].ID)
	assert.False(t, fx.machine.IsSyncing())
}

// ── seeding ──────────────────────────────────────────────────────────────────

func TestChannel_SeedsEmptyCategoriesOnce(t *testing.T) {
	mem := adapter.NewMemoryRemoteStore()
	gw := newMemoryGateway(mem)
	fx := newChannelFixture(t, gw, models.CollectionCategories, CategoryMapper, true)
	fx.channel.WithSeed(seedCategories(gw))
	ctx := context.Background()

	require.NoError(t, fx.channel.FetchAndUpdate(ctx))

	categories := fx.store.Categories()
	assert.Len(t, categories, len(defaultCategories))
	for _, c := range categories {
		assert.True(t, c.IsDefault)
	}
	assert.Equal(t, 1, mem.Calls(models.QueryUpsert))
	assert.Equal(t, 2, mem.Calls(models.QuerySelect))

	require.NoError(t, fx.channel.FetchAndUpdate(ctx))
	assert.Equal(t, 1, mem.Calls(models.QueryUpsert), "non-empty collection is not seeded again")
	assert.Len(t, fx.store.Categories(), len(defaultCategories))
}

func TestChannel_SeedFailureRefetchesOnce(t *testing.T) {
	gw := newStubGateway(func(_ context.Context, op models.RemoteOperation) models.RemoteResult {
		if op.Kind == models.QueryUpsert {
			return models.RemoteResult{Err: errors.New("permission denied")}
		}
		return models.RemoteResult{Data: []json.RawMessage{}}
	})
	fx := newChannelFixture(t, gw, models.CollectionCategories, CategoryMapper, true)
	fx.channel.WithSeed(seedCategories(gw))

	require.NoError(t, fx.channel.FetchAndUpdate(context.Background()))

	assert.Equal(t, 1, gw.count(models.QueryUpsert))
	assert.Equal(t, 2, gw.count(models.QuerySelect))
	assert.Empty(t, fx.store.Categories())
	assert.False(t, fx.machine.IsSyncing())
}

func TestDefaultCategories_StableIDs(t *testing.T) {
	a := DefaultCategories(testUser)
	b := DefaultCategories(testUser)
	other := DefaultCategories("user-2")

	require.Len(t, a, len(defaultCategories))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a[0].ID, other[0].ID)
	assert.Equal(t, models.WorkspacePersonal, a[0].Workspace)
}

// ── Sync ─────────────────────────────────────────────────────────────────────

func TestChannel_SyncOnlineUpserts(t *testing.T) {
	mem := adapter.NewMemoryRemoteStore()
	fx := newChannelFixture(t, newMemoryGateway(mem), models.CollectionBills, BillMapper, true)

	fx.channel.Sync(context.Background(), models.Bill{ID: "b1", Name: "Rent", Amount: 1000}, models.MutationCreate)

	rows := mem.Rows("bills", testUser)
	require.Len(t, rows, 1)
	assert.Contains(t, string(rows[0]), `"user_id":"user-1"`)
	assert.Equal(t, 0, fx.queue.Len())
	assert.Equal(t, models.PhaseIdle, fx.machine.State().Phase)
}

func TestChannel_SyncOfflineQueuesExactlyOnce(t *testing.T) {
	mem := adapter.NewMemoryRemoteStore()
	fx := newChannelFixture(t, newMemoryGateway(mem), models.CollectionBills, BillMapper, false)

	fx.channel.Sync(context.Background(), models.Bill{ID: "b1", Name: "Rent"}, models.MutationCreate)

	assert.Equal(t, 0, mem.Calls(models.QueryUpsert))
	entries := fx.queue.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.MutationCreate, entries[0].Mutation)
	assert.Equal(t, "b1", entries[0].ID)
}

func TestChannel_SyncFailureQueuesAndRecordsError(t *testing.T) {
	mem := adapter.NewMemoryRemoteStore()
	mem.SetAvailable(false)
	fx := newChannelFixture(t, newMemoryGateway(mem), models.CollectionBills, BillMapper, true)

	fx.channel.Sync(context.Background(), models.Bill{ID: "b1"}, models.MutationUpdate)

	assert.Equal(t, 1, fx.queue.Len())
	st := fx.machine.State()
	assert.Equal(t, models.PhaseError, st.Phase)
	assert.False(t, st.IsSyncing)
}

func TestChannel_SyncQueuesBehindPendingEntries(t *testing.T) {
	mem := adapter.NewMemoryRemoteStore()
	fx := newChannelFixture(t, newMemoryGateway(mem), models.CollectionBills, BillMapper, true)
	ctx := context.Background()

	fx.queue.Enqueue(ctx, models.CollectionBills, "b1", json.RawMessage(`{"id":"b1"}`), models.MutationCreate)
	fx.channel.Sync(ctx, models.Bill{ID: "b1", Amount: 5}, models.MutationUpdate)

	assert.Equal(t, 2, fx.queue.Len())
	assert.Equal(t, 0, mem.Calls(models.QueryUpsert))
}

func TestChannel_StoreMutationsReachRemote(t *testing.T) {
	mem := adapter.NewMemoryRemoteStore()
	fx := newChannelFixture(t, newMemoryGateway(mem), models.CollectionGoals, GoalMapper, true)
	ctx := context.Background()

	goal := fx.store.AddGoal(ctx, models.SavingsGoal{Name: "Trip", TargetAmount: 2000})
	require.NotEmpty(t, goal.ID)
	assert.Len(t, fx.store.Goals(), 1, "optimistic update is visible at once")

	goal.CurrentAmount = 500
	fx.store.UpdateGoal(ctx, goal)
	fx.channel.Flush()

	rows := mem.Rows("savings_goals", testUser)
	require.Len(t, rows, 1)
	assert.Contains(t, string(rows[0]), `"current_amount":500`)

	fx.store.DeleteGoal(ctx, goal.ID)
	fx.channel.Flush()
	assert.Empty(t, mem.Rows("savings_goals", testUser))
	assert.Equal(t, 1, mem.Calls(models.QueryDelete))
}

// ── ReplayEntry ──────────────────────────────────────────────────────────────

func TestChannel_ReplayEntryIsIdempotent(t *testing.T) {
	mem := adapter.NewMemoryRemoteStore()
	fx := newChannelFixture(t, newMemoryGateway(mem), models.CollectionBills, BillMapper, true)
	ctx := context.Background()

	entry := models.QueueEntry{
		Collection: models.CollectionBills,
		ID:         "b1",
		Record:     json.RawMessage(`{"id":"b1","name":"Rent","amount":1000}`),
		Mutation:   models.MutationCreate,
	}
	require.NoError(t, fx.channel.ReplayEntry(ctx, entry))
	require.NoError(t, fx.channel.ReplayEntry(ctx, entry))
	assert.Len(t, mem.Rows("bills", testUser), 1)

	del := models.QueueEntry{Collection: models.CollectionBills, ID: "b1", Mutation: models.MutationDelete}
	require.NoError(t, fx.channel.ReplayEntry(ctx, del))
	require.NoError(t, fx.channel.ReplayEntry(ctx, del), "deleting a missing row succeeds")
	assert.Empty(t, mem.Rows("bills", testUser))
}

func TestChannel_ReplayEntryWithoutRecord(t *testing.T) {
	fx := newChannelFixture(t, newMemoryGateway(adapter.NewMemoryRemoteStore()), models.CollectionBills, BillMapper, true)

	err := fx.channel.ReplayEntry(context.Background(), models.QueueEntry{ID: "b1", Mutation: models.MutationUpdate})
	assert.ErrorIs(t, err, ErrMalformedRow)
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestChannel_ChangeNotificationTriggersRefetch(t *testing.T) {
	mem := adapter.NewMemoryRemoteStore()
	fx := newChannelFixture(t, newMemoryGateway(mem), models.CollectionBills, BillMapper, true)
	ctx := context.Background()

	require.NoError(t, fx.channel.Start(ctx))
	assert.Equal(t, 1, mem.Subscribers())

	_, err := mem.Upsert(ctx, "bills", testUser, rawRows(`{"id":"b1","name":"Rent","amount":1000}`))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(fx.store.Bills()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	fx.channel.Stop()
	assert.Equal(t, 0, mem.Subscribers())
}
