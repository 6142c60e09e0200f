// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedKV holds the first Set or Delete that matches until release is closed.
type gatedKV struct {
	*store.MemoryKeyValueRepository

	holdSet    func(ids []string) bool
	holdDelete bool

	once    sync.Once
	held    chan struct{}
	release chan struct{}
}

func newGatedKV() *gatedKV {
	return &gatedKV{
		MemoryKeyValueRepository: store.NewMemoryKeyValueRepository(),
		held:                     make(chan struct{}),
		release:                  make(chan struct{}),
	}
}

func (kv *gatedKV) hold() {
	kv.once.Do(func() {
		close(kv.held)
		<-kv.release
	})
}

func (kv *gatedKV) Set(ctx context.Context, key string, value []byte) error {
	if kv.holdSet != nil {
		var entries []models.QueueEntry
		if err := json.Unmarshal(value, &entries); err == nil && kv.holdSet(entryIDs(entries)) {
			kv.hold()
		}
	}
	return kv.MemoryKeyValueRepository.Set(ctx, key, value)
}

func (kv *gatedKV) Delete(ctx context.Context, key string) error {
	if kv.holdDelete {
		kv.hold()
	}
	return kv.MemoryKeyValueRepository.Delete(ctx, key)
}

func entryIDs(entries []models.QueueEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func enqueueBill(q *OfflineQueue, id string) {
	q.Enqueue(context.Background(), models.CollectionBills, id, json.RawMessage(`{"id":"`+id+`"}`), models.MutationCreate)
}

// enqueueDuringHeldWrite запускает Replay, ждёт удержанной записи в kv,
// добавляет c1 и только потом отпускает запись
func enqueueDuringHeldWrite(t *testing.T, q *OfflineQueue, kv *gatedKV, wantLen int) error {
	t.Helper()

	replayErr := make(chan error, 1)
	go func() { replayErr <- q.Replay(context.Background()) }()

	select {
	case <-kv.held:
	case <-time.After(2 * time.Second):
		t.Fatal("replay never reached the held write")
	}

	enqueued := make(chan struct{})
	go func() {
		enqueueBill(q, "c1")
		close(enqueued)
	}()
	require.Eventually(t, func() bool { return q.Len() == wantLen }, 2*time.Second, 5*time.Millisecond)

	close(kv.release)

	var err error
	select {
	case err = <-replayErr:
	case <-time.After(2 * time.Second):
		t.Fatal("replay did not finish")
	}
	select {
	case <-enqueued:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue did not finish")
	}
	return err
}

func reloadedIDs(t *testing.T, kv store.KeyValueRepository) []string {
	t.Helper()
	restarted := NewOfflineQueue(kv, NewSyncStateMachine(false), logger.Nop())
	restarted.Load(context.Background(), testUser)
	return entryIDs(restarted.Entries())
}

// ── persistence under concurrent Enqueue ─────────────────────────────────────

func TestOfflineQueue_EnqueueDuringReplayWriteIsPersisted(t *testing.T) {
	kv := newGatedKV()
	q := NewOfflineQueue(kv, NewSyncStateMachine(true), logger.Nop())
	q.Load(context.Background(), testUser)

	boom := errors.New("remote rejected")
	q.Register(&fakeReplayer{
		collection: models.CollectionBills,
		fail: func(e models.QueueEntry) error {
			if e.ID == "b1" {
				return boom
			}
			return nil
		},
	})

	enqueueBill(q, "a1")
	enqueueBill(q, "b1")
	kv.holdSet = func(ids []string) bool { return len(ids) == 1 && ids[0] == "b1" }

	// a1 выгружен, запись [b1] удержана, c1 добавляется, затем b1 падает
	err := enqueueDuringHeldWrite(t, q, kv, 2)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"b1", "c1"}, entryIDs(q.Entries()))
	assert.Equal(t, []string{"b1", "c1"}, reloadedIDs(t, kv))
}

func TestOfflineQueue_EnqueueDuringDrainIsNotDeleted(t *testing.T) {
	kv := newGatedKV()
	q := NewOfflineQueue(kv, NewSyncStateMachine(true), logger.Nop())
	q.Load(context.Background(), testUser)

	boom := errors.New("remote rejected")
	bills := &fakeReplayer{
		collection: models.CollectionBills,
		fail: func(e models.QueueEntry) error {
			if e.ID == "c1" {
				return boom
			}
			return nil
		},
	}
	q.Register(bills)

	enqueueBill(q, "a1")
	kv.holdDelete = true

	err := enqueueDuringHeldWrite(t, q, kv, 1)
	assert.ErrorIs(t, err, boom)

	require.Len(t, bills.replayed, 1)
	assert.Equal(t, "a1", bills.replayed[0].ID)
	assert.Equal(t, []string{"c1"}, entryIDs(q.Entries()))
	assert.Equal(t, []string{"c1"}, reloadedIDs(t, kv))
}
