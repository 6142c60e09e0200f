// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingStore counts concurrent Selects and holds each until released.
type blockingStore struct {
	*MemoryRemoteStore

	inFlight atomic.Int32
	peak     atomic.Int32
	release  chan struct{}
}

func (b *blockingStore) Select(ctx context.Context, table, userID string) ([]json.RawMessage, error) {
	n := b.inFlight.Add(1)
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			break
		}
	}
	defer b.inFlight.Add(-1)

	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return nil, nil
}

// panicStore panics on every Select.
type panicStore struct {
	*MemoryRemoteStore
}

func (panicStore) Select(context.Context, string, string) ([]json.RawMessage, error) {
	panic("boom")
}

func TestGateway_ConcurrencyCap(t *testing.T) {
	store := &blockingStore{MemoryRemoteStore: NewMemoryRemoteStore(), release: make(chan struct{})}
	gw := NewGateway(store, 2, "user-1", logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := gw.Call(context.Background(), models.RemoteOperation{Kind: models.QuerySelect, Table: "bills"})
			assert.True(t, res.OK())
		}()
	}

	require.Eventually(t, func() bool { return store.inFlight.Load() == 2 }, time.Second, 5*time.Millisecond)
	// give the remaining callers a chance to (wrongly) slip through
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 2, store.inFlight.Load())

	close(store.release)
	wg.Wait()
	assert.EqualValues(t, 2, store.peak.Load())
}

func TestGateway_CancelledWaiterReleases(t *testing.T) {
	store := &blockingStore{MemoryRemoteStore: NewMemoryRemoteStore(), release: make(chan struct{})}
	gw := NewGateway(store, 1, "user-1", logger.Nop())

	go gw.Call(context.Background(), models.RemoteOperation{Kind: models.QuerySelect, Table: "bills"})
	require.Eventually(t, func() bool { return store.inFlight.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := gw.Call(ctx, models.RemoteOperation{Kind: models.QuerySelect, Table: "bills"})

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	close(store.release)
}

func TestGateway_NoUser(t *testing.T) {
	gw := NewGateway(NewMemoryRemoteStore(), 2, "", nil)

	res := gw.Call(context.Background(), models.RemoteOperation{Kind: models.QuerySelect, Table: "bills"})
	assert.ErrorIs(t, res.Err, ErrNoUser)

	_, err := gw.SubscribeToChanges(context.Background(), "bills", "", func(models.ChangeEvent) {})
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestGateway_InvalidOperations(t *testing.T) {
	gw := NewGateway(NewMemoryRemoteStore(), 2, "user-1", nil)

	tests := []struct {
		name string
		op   models.RemoteOperation
		want error
	}{
		{"unknown kind", models.RemoteOperation{Kind: "merge", Table: "bills"}, ErrUnknownOperation},
		{"empty table", models.RemoteOperation{Kind: models.QuerySelect}, ErrInvalidOperation},
		{"upsert without rows", models.RemoteOperation{Kind: models.QueryUpsert, Table: "bills"}, ErrInvalidOperation},
		{"delete without id", models.RemoteOperation{Kind: models.QueryDelete, Table: "bills"}, ErrInvalidOperation},
		{"update with two rows", models.RemoteOperation{Kind: models.QueryUpdate, Table: "bills", ID: "b1",
			Rows: []json.RawMessage{json.RawMessage(`{"id":"b1"}`), json.RawMessage(`{"id":"b2"}`)}}, ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := gw.Call(context.Background(), tt.op)
			assert.False(t, res.OK())
			assert.ErrorIs(t, res.Err, tt.want)
		})
	}
}

func TestGateway_PanicBecomesError(t *testing.T) {
	gw := NewGateway(panicStore{NewMemoryRemoteStore()}, 1, "user-1", nil)

	res := gw.Call(context.Background(), models.RemoteOperation{Kind: models.QuerySelect, Table: "bills"})
	assert.ErrorIs(t, res.Err, ErrInvalidOperation)

	// the slot was released
	res = gw.Call(context.Background(), models.RemoteOperation{Kind: models.QueryDelete, Table: "bills", ID: "x"})
	assert.NoError(t, res.Err)
}

func TestGateway_ScopesByUser(t *testing.T) {
	store := NewMemoryRemoteStore()
	gw := NewGateway(store, 2, "alice", nil)
	row := []json.RawMessage{json.RawMessage(`{"id":"t1","amount":5}`)}

	require.NoError(t, gw.Call(context.Background(), models.RemoteOperation{Kind: models.QueryUpsert, Table: "transactions", Rows: row}).Err)

	gw.SetUserID("bob")
	assert.Equal(t, "bob", gw.UserID())
	res := gw.Call(context.Background(), models.RemoteOperation{Kind: models.QuerySelect, Table: "transactions"})
	require.NoError(t, res.Err)
	assert.Empty(t, res.Data)

	assert.Len(t, store.Rows("transactions", "alice"), 1)
}

func TestGateway_UnavailableIsValue(t *testing.T) {
	store := NewMemoryRemoteStore()
	store.SetAvailable(false)
	gw := NewGateway(store, 2, "user-1", nil)

	res := gw.Call(context.Background(), models.RemoteOperation{Kind: models.QuerySelect, Table: "bills"})
	assert.ErrorIs(t, res.Err, ErrUnavailable)
	assert.ErrorIs(t, gw.Ping(context.Background()), ErrUnavailable)
}

func TestSharedGateway_ReturnsSameInstance(t *testing.T) {
	first := SharedGateway(NewMemoryRemoteStore(), 2, "user-1", nil)
	second := SharedGateway(NewMemoryRemoteStore(), 5, "user-2", nil)

	assert.Same(t, first, second)
}

func TestUserIDFromToken(t *testing.T) {
	token, err := utils.GenerateJWTToken("iss", "user-42", time.Hour, "key")
	require.NoError(t, err)

	userID, err := UserIDFromToken(token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)

	_, err = UserIDFromToken("nope")
	assert.Error(t, err)
}
