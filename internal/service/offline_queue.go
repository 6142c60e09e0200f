// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
)

const offlineQueueKeyPrefix = "offline_queue:"

// Replayer re-applies a queued mutation of its collection against the remote
// store without queueing it again.
type Replayer interface {
	Collection() models.Collection
	ReplayEntry(ctx context.Context, entry models.QueueEntry) error
}

// OfflineQueue is the durable, ordered list of mutations that could not reach
// the remote store. Entries for the same id are never coalesced: replay
// applies them in enqueue order and the last write wins remotely.
type OfflineQueue struct {
	mu sync.Mutex
	// persistMu orders writes to kv. Lock order is persistMu then mu.
	persistMu sync.Mutex
	entries   []models.QueueEntry
	userID    string
	replayers map[models.Collection]Replayer
	replaying atomic.Bool

	kv     store.KeyValueRepository
	state  *SyncStateMachine
	logger *logger.Logger
	now    func() time.Time
}

func NewOfflineQueue(kv store.KeyValueRepository, state *SyncStateMachine, log *logger.Logger) *OfflineQueue {
	return &OfflineQueue{
		replayers: make(map[models.Collection]Replayer),
		kv:        kv,
		state:     state,
		logger:    log,
		now:       time.Now,
	}
}

func offlineQueueKey(userID string) string {
	return offlineQueueKeyPrefix + userID
}

// Register makes r the replayer of its collection.
func (q *OfflineQueue) Register(r Replayer) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.replayers[r.Collection()] = r
}

// Load switches the queue to userID and reads its persisted entries. Missing
// or corrupt data yields an empty queue.
func (q *OfflineQueue) Load(ctx context.Context, userID string) {
	log := q.logger.With().Str("func", "*OfflineQueue.Load").Str("user_id", userID).Logger()

	entries := make([]models.QueueEntry, 0)
	raw, err := q.kv.Get(ctx, offlineQueueKey(userID))
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
	case err != nil:
		log.Warn().Err(err).Msg("error reading persisted offline queue, starting empty")
	default:
		if err = json.Unmarshal(raw, &entries); err != nil {
			log.Warn().Err(err).Msg("persisted offline queue is corrupt, starting empty")
			entries = make([]models.QueueEntry, 0)
		}
	}

	q.mu.Lock()
	q.userID = userID
	q.entries = entries
	q.mu.Unlock()

	log.Debug().Int("entries", len(entries)).Msg("offline queue loaded")
}

// Enqueue appends a mutation and persists the whole queue. It never fails:
// persistence errors are logged and the entry stays in memory.
func (q *OfflineQueue) Enqueue(ctx context.Context, collection models.Collection, id string, record json.RawMessage, mutation models.Mutation) {
	entry := models.QueueEntry{
		Collection: collection,
		ID:         id,
		Record:     record,
		Mutation:   mutation,
		EnqueuedAt: q.now().UTC(),
	}

	q.mu.Lock()
	q.entries = append(q.entries, entry)
	q.mu.Unlock()

	q.logger.Debug().Str("func", "*OfflineQueue.Enqueue").
		Str("collection", collection.String()).Str("id", id).Str("mutation", string(mutation)).
		Msg("mutation queued")

	q.persist(ctx)
}

// Len returns the number of queued entries.
func (q *OfflineQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Entries returns a copy of the queued entries in enqueue order.
func (q *OfflineQueue) Entries() []models.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.entries)
}

// Pending reports whether collection has queued entries.
func (q *OfflineQueue) Pending(collection models.Collection) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.ContainsFunc(q.entries, func(e models.QueueEntry) bool { return e.Collection == collection })
}

// Replay applies the queued entries in order. A non-empty queue requires a
// connection and no other replay or sync in flight. The pass stops at the first failing entry;
// it and everything after it stay queued.
func (q *OfflineQueue) Replay(ctx context.Context) error {
	if !q.state.IsOnline() {
		return ErrReplayOffline
	}
	if q.Len() == 0 {
		return nil
	}
	if q.state.IsSyncing() || !q.replaying.CompareAndSwap(false, true) {
		return ErrReplayInProgress
	}
	defer q.replaying.Store(false)

	end := q.state.BeginSync()
	err := q.replay(ctx)
	end(err)
	return err
}

func (q *OfflineQueue) replay(ctx context.Context) error {
	log := q.logger.With().Str("func", "*OfflineQueue.Replay").Logger()

	replayed := 0
	for {
		q.mu.Lock()
		if len(q.entries) == 0 {
			q.mu.Unlock()
			log.Info().Int("replayed", replayed).Msg("offline queue drained")
			return nil
		}
		entry := q.entries[0]
		replayer := q.replayers[entry.Collection]
		q.mu.Unlock()

		if replayer == nil {
			return fmt.Errorf("%w: %s", ErrNoReplayer, entry.Collection)
		}

		if err := replayer.ReplayEntry(ctx, entry); err != nil {
			log.Warn().Err(err).Str("collection", entry.Collection.String()).Str("id", entry.ID).
				Int("replayed", replayed).Msg("replay stopped at failing entry")
			return fmt.Errorf("replay %s %s %s: %w", entry.Mutation, entry.Collection, entry.ID, err)
		}

		q.mu.Lock()
		q.entries = q.entries[1:]
		q.mu.Unlock()

		replayed++
		q.persist(ctx)
	}
}

// persist writes the queue as it is once persistMu is held, so the last write
// to kv always carries the newest entries. An empty queue deletes the key.
func (q *OfflineQueue) persist(ctx context.Context) {
	q.persistMu.Lock()
	defer q.persistMu.Unlock()

	q.mu.Lock()
	snapshot := slices.Clone(q.entries)
	key := offlineQueueKey(q.userID)
	q.mu.Unlock()

	if len(snapshot) == 0 {
		if err := q.kv.Delete(ctx, key); err != nil {
			q.logger.Warn().Err(err).Str("func", "*OfflineQueue.persist").Msg("error clearing persisted offline queue")
		}
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		q.logger.Err(err).Str("func", "*OfflineQueue.persist").Msg("error encoding offline queue")
		return
	}
	if err = q.kv.Set(ctx, key, raw); err != nil {
		q.logger.Err(err).Str("func", "*OfflineQueue.persist").Msg("error persisting offline queue")
	}
}
