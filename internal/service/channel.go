// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-fin-sync/internal/adapter"
	"github.com/MKhiriev/go-fin-sync/internal/events"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
)

// SeedFunc writes a default data set for a user whose collection is empty.
type SeedFunc func(ctx context.Context, userID string) error

// Channel mirrors one remote table into the local state store and carries
// local mutations of that collection back to the remote store.
type Channel[T models.Record] struct {
	collection models.Collection
	mapper     RowMapper[T]
	seed       SeedFunc

	gateway adapter.Gateway
	queue   *OfflineQueue
	state   *SyncStateMachine
	bus     *events.Bus
	logger  *logger.Logger

	// seq is the number of the latest fetch issued; applied is the number of
	// the latest fetch whose result was published.
	seq       atomic.Uint64
	publishMu sync.Mutex
	applied   uint64

	exec executor

	mu          sync.Mutex
	cancel      context.CancelFunc
	unsubscribe func()
	fetches     sync.WaitGroup
}

// NewChannel constructs a channel for collection. It is idle until Start.
func NewChannel[T models.Record](collection models.Collection, mapper RowMapper[T], gateway adapter.Gateway,
	queue *OfflineQueue, state *SyncStateMachine, bus *events.Bus, log *logger.Logger) *Channel[T] {
	return &Channel[T]{
		collection: collection,
		mapper:     mapper,
		gateway:    gateway,
		queue:      queue,
		state:      state,
		bus:        bus,
		logger:     &logger.Logger{Logger: log.With().Str("collection", collection.String()).Logger()},
	}
}

// WithSeed enables first-run seeding: when a fetch returns no rows, seed runs
// once and the fetch is repeated a single time.
func (c *Channel[T]) WithSeed(seed SeedFunc) *Channel[T] {
	c.seed = seed
	return c
}

// Collection implements Replayer.
func (c *Channel[T]) Collection() models.Collection {
	return c.collection
}

// Start subscribes to the table's change feed. Every change event triggers a
// full re-fetch.
func (c *Channel[T]) Start(ctx context.Context) error {
	c.Stop()

	ctx, cancel := context.WithCancel(ctx)
	unsubscribe, err := c.gateway.SubscribeToChanges(ctx, c.collection.String(), "", func(evt models.ChangeEvent) {
		if ctx.Err() != nil {
			return
		}
		c.logger.Debug().Str("func", "*Channel.onChange").Str("type", string(evt.Type)).Str("id", evt.RecordID).
			Msg("change notification received")
		c.fetchAsync(ctx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe %s: %w", c.collection, err)
	}

	c.mu.Lock()
	c.cancel = cancel
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return nil
}

// Stop releases the change feed, waits for in-flight fetches and drains
// submitted mutations.
func (c *Channel[T]) Stop() {
	c.mu.Lock()
	cancel, unsubscribe := c.cancel, c.unsubscribe
	c.cancel, c.unsubscribe = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	c.fetches.Wait()
	c.exec.wait()
}

func (c *Channel[T]) fetchAsync(ctx context.Context) {
	c.mu.Lock()
	if c.cancel == nil {
		// stopped
		c.mu.Unlock()
		return
	}
	c.fetches.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.fetches.Done()
		_ = c.FetchAndUpdate(ctx)
	}()
}

// FetchAndUpdate loads every row of the current user, maps it and publishes
// the full list. On failure the previous list stays in place and the error
// is recorded in the sync state. Results of a fetch that was overtaken by a
// newer one are dropped.
func (c *Channel[T]) FetchAndUpdate(ctx context.Context) error {
	return c.fetchAndUpdate(ctx, false)
}

func (c *Channel[T]) fetchAndUpdate(ctx context.Context, retried bool) error {
	log := c.logger.With().Str("func", "*Channel.FetchAndUpdate").Logger()
	seq := c.seq.Add(1)

	end := c.state.BeginSync()
	res := c.gateway.Call(ctx, models.RemoteOperation{Kind: models.QuerySelect, Table: c.collection.String()})
	if res.Err != nil && ctx.Err() != nil {
		// cancelled by Stop: neither a failure nor a sync
		end(ErrSyncAborted)
		return ctx.Err()
	}
	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("fetch failed, keeping local list")
		err := fmt.Errorf("fetch %s: %w", c.collection, res.Err)
		end(err)
		return err
	}

	records := c.mapRows(res.Data)

	if len(records) == 0 && c.seed != nil && !retried {
		userID := c.gateway.UserID()
		log.Info().Str("user_id", userID).Msg("no rows, seeding defaults")
		if err := c.seed(ctx, userID); err != nil {
			log.Warn().Err(err).Msg("seeding failed")
		}
		end(nil)
		return c.fetchAndUpdate(ctx, true)
	}

	c.publish(seq, records)
	end(nil)
	return nil
}

func (c *Channel[T]) mapRows(rows []json.RawMessage) []models.Record {
	records := make([]models.Record, 0, len(rows))
	for _, raw := range rows {
		record, err := c.mapper.FromRow(raw)
		if err != nil {
			c.logger.Warn().Err(err).Str("func", "*Channel.mapRows").Msg("skipping undecodable row")
			continue
		}
		records = append(records, record)
	}
	return records
}

func (c *Channel[T]) publish(seq uint64, records []models.Record) {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	if seq < c.applied {
		c.logger.Debug().Uint64("seq", seq).Uint64("applied", c.applied).Msg("dropping stale fetch result")
		return
	}
	c.applied = seq

	c.bus.Publish(events.CollectionUpdated{
		Collection: c.collection,
		UserID:     c.gateway.UserID(),
		Records:    records,
	})
}

// Sync sends one mutation to the remote store. Delete removes the row by id,
// create and update upsert it. While offline, when the call fails, or while
// earlier mutations of the collection are still queued, the mutation is
// queued instead. Sync never reports an error.
func (c *Channel[T]) Sync(ctx context.Context, record T, mutation models.Mutation) {
	row, err := c.mapper.ToRow(record)
	if err != nil {
		c.logger.Err(err).Str("func", "*Channel.Sync").Str("id", record.RecordID()).Msg("error encoding record")
		return
	}
	c.syncRow(ctx, record.RecordID(), row, mutation)
}

// SubmitMutation queues Sync on the channel's ordered executor and returns
// at once. record may be nil for deletes.
func (c *Channel[T]) SubmitMutation(ctx context.Context, id string, record models.Record, mutation models.Mutation) {
	var row json.RawMessage
	switch typed, ok := record.(T); {
	case ok:
		encoded, err := c.mapper.ToRow(typed)
		if err != nil {
			c.logger.Err(err).Str("func", "*Channel.SubmitMutation").Str("id", id).Msg("error encoding record")
			return
		}
		row = encoded
	case mutation == models.MutationDelete:
		row, _ = json.Marshal(map[string]string{"id": id})
	default:
		c.logger.Error().Str("func", "*Channel.SubmitMutation").Str("id", id).Msg("record of unexpected type")
		return
	}

	ctx = context.WithoutCancel(ctx)
	c.exec.submit(func() { c.syncRow(ctx, id, row, mutation) })
}

// Flush waits until every submitted mutation has been handled.
func (c *Channel[T]) Flush() {
	c.exec.wait()
}

func (c *Channel[T]) syncRow(ctx context.Context, id string, row json.RawMessage, mutation models.Mutation) {
	if !c.state.IsOnline() || c.queue.Pending(c.collection) {
		c.queue.Enqueue(ctx, c.collection, id, row, mutation)
		return
	}

	end := c.state.BeginSync()
	err := c.write(ctx, id, row, mutation)
	end(err)

	if err != nil {
		c.logger.Warn().Err(err).Str("func", "*Channel.Sync").Str("id", id).Msg("remote write failed, queued")
		c.queue.Enqueue(ctx, c.collection, id, row, mutation)
	}
}

// ReplayEntry performs the queued write without queueing it again.
func (c *Channel[T]) ReplayEntry(ctx context.Context, entry models.QueueEntry) error {
	if entry.Mutation != models.MutationDelete && len(entry.Record) == 0 {
		return fmt.Errorf("%w: queued %s without record", ErrMalformedRow, entry.Mutation)
	}
	return c.write(ctx, entry.ID, entry.Record, entry.Mutation)
}

func (c *Channel[T]) write(ctx context.Context, id string, row json.RawMessage, mutation models.Mutation) error {
	op := models.RemoteOperation{Table: c.collection.String()}
	switch mutation {
	case models.MutationDelete:
		op.Kind = models.QueryDelete
		op.ID = id
	case models.MutationCreate, models.MutationUpdate:
		op.Kind = models.QueryUpsert
		op.Rows = []json.RawMessage{row}
	default:
		return fmt.Errorf("%w: mutation %q", adapter.ErrInvalidOperation, mutation)
	}

	return c.gateway.Call(ctx, op).Err
}

// executor runs submitted funcs one at a time in submission order.
type executor struct {
	mu      sync.Mutex
	pending []func()
	running bool
	wg      sync.WaitGroup
}

func (e *executor) submit(fn func()) {
	e.wg.Add(1)

	e.mu.Lock()
	e.pending = append(e.pending, fn)
	start := !e.running
	e.running = true
	e.mu.Unlock()

	if start {
		go e.drain()
	}
}

func (e *executor) drain() {
	for {
		e.mu.Lock()
		if len(e.pending) == 0 {
			e.running = false
			e.mu.Unlock()
			return
		}
		fn := e.pending[0]
		e.pending = e.pending[1:]
		e.mu.Unlock()

		fn()
		e.wg.Done()
	}
}

func (e *executor) wait() {
	e.wg.Wait()
}
