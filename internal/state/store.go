// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package state holds the client's in-memory source of truth: one ordered
// record list per collection. Lists are never mutated in place; every change
// swaps in a new slice, so a list handed out earlier stays valid.
package state

import (
	"context"
	"slices"
	"sync"

	"github.com/MKhiriev/go-fin-sync/internal/events"
	"github.com/MKhiriev/go-fin-sync/models"
)

// MutationSink receives optimistic mutations for remote delivery. record is
// nil for a delete of a record the store does not hold.
type MutationSink interface {
	SubmitMutation(ctx context.Context, id string, record models.Record, mutation models.Mutation)
}

// Listener is notified with the new list of a collection.
type Listener func(records []models.Record)

type listener struct {
	id uint64
	fn Listener
}

// Store is the local state store.
type Store struct {
	mu sync.RWMutex
	// notifyMu spans a list swap and its notification. Lock order is
	// notifyMu then mu.
	notifyMu  sync.Mutex
	lists     map[models.Collection][]models.Record
	sinks     map[models.Collection]MutationSink
	listeners map[models.Collection][]listener
	nextID    uint64
	loading   bool
	userKey   string
}

var (
	sharedStore *Store
	sharedOnce  sync.Once
)

// Shared returns the process-wide store, creating it on first use.
func Shared() *Store {
	sharedOnce.Do(func() {
		sharedStore = New()
	})
	return sharedStore
}

// New returns an empty store. Tests use it for isolated instances.
func New() *Store {
	return &Store{
		lists:     make(map[models.Collection][]models.Record),
		sinks:     make(map[models.Collection]MutationSink),
		listeners: make(map[models.Collection][]listener),
	}
}

// Bind routes mutations of collection to sink.
func (s *Store) Bind(collection models.Collection, sink MutationSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks[collection] = sink
}

// Attach subscribes the store to collection updates published on bus.
// Updates for a user other than the current user key are ignored.
func (s *Store) Attach(bus *events.Bus) func() {
	return bus.Subscribe(func(e events.CollectionUpdated) {
		if key := s.UserKey(); key != "" && e.UserID != "" && e.UserID != key {
			return
		}
		s.SetSyncData(e.Collection, e.Records)
	})
}

// SetSyncData replaces the list of collection. It is the only write path
// used by the sync layer.
func (s *Store) SetSyncData(collection models.Collection, records []models.Record) {
	s.replace(collection, slices.Clone(records))
}

// Records returns the current list of collection.
func (s *Store) Records(collection models.Collection) []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lists[collection])
}

// Count returns the length of the list of collection.
func (s *Store) Count(collection models.Collection) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists[collection])
}

// Subscribe registers fn for changes of collection.
func (s *Store) Subscribe(collection models.Collection, fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners[collection] = append(s.listeners[collection], listener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners[collection] = slices.DeleteFunc(s.listeners[collection], func(l listener) bool { return l.id == id })
	}
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetUserKey scopes the store to a user. Changing the key drops every list.
func (s *Store) SetUserKey(key string) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.userKey == key {
		s.mu.Unlock()
		return
	}
	s.userKey = key
	cleared := make([]models.Collection, 0, len(s.lists))
	for c := range s.lists {
		cleared = append(cleared, c)
	}
	s.lists = make(map[models.Collection][]models.Record)
	s.mu.Unlock()

	for _, c := range cleared {
		s.notify(c, nil)
	}
}

func (s *Store) UserKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userKey
}

// swap installs the list built by next and notifies listeners before the
// next swap of any collection can start, so listeners see lists in the order
// they were installed. Listeners must not write to the store.
func (s *Store) swap(collection models.Collection, next func(current []models.Record) []models.Record) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	records := next(s.lists[collection])
	s.lists[collection] = records
	s.mu.Unlock()

	s.notify(collection, records)
}

func (s *Store) replace(collection models.Collection, records []models.Record) {
	s.swap(collection, func([]models.Record) []models.Record { return records })
}

func (s *Store) notify(collection models.Collection, records []models.Record) {
	s.mu.RLock()
	fns := make([]Listener, 0, len(s.listeners[collection]))
	for _, l := range s.listeners[collection] {
		fns = append(fns, l.fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(slices.Clone(records))
	}
}

func (s *Store) sink(collection models.Collection) MutationSink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sinks[collection]
}

// add appends record to a new copy of the list, then hands it to the sink.
func (s *Store) add(ctx context.Context, collection models.Collection, record models.Record) {
	s.swap(collection, func(current []models.Record) []models.Record {
		next := make([]models.Record, 0, len(current)+1)
		next = append(next, current...)
		return append(next, record)
	})

	if sink := s.sink(collection); sink != nil {
		sink.SubmitMutation(ctx, record.RecordID(), record, models.MutationCreate)
	}
}

// update swaps the record with the same id for a new one. An unknown id
// leaves the list unchanged but is still sent as an upsert.
func (s *Store) update(ctx context.Context, collection models.Collection, record models.Record) {
	s.swap(collection, func(current []models.Record) []models.Record {
		next := make([]models.Record, len(current))
		for i, r := range current {
			if r.RecordID() == record.RecordID() {
				next[i] = record
				continue
			}
			next[i] = r
		}
		return next
	})

	if sink := s.sink(collection); sink != nil {
		sink.SubmitMutation(ctx, record.RecordID(), record, models.MutationUpdate)
	}
}

func (s *Store) remove(ctx context.Context, collection models.Collection, id string) {
	var removed models.Record
	s.swap(collection, func(current []models.Record) []models.Record {
		next := make([]models.Record, 0, len(current))
		for _, r := range current {
			if r.RecordID() == id {
				removed = r
				continue
			}
			next = append(next, r)
		}
		return next
	})

	if sink := s.sink(collection); sink != nil {
		sink.SubmitMutation(ctx, id, removed, models.MutationDelete)
	}
}

func typed[T models.Record](s *Store, collection models.Collection) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.lists[collection]
	out := make([]T, 0, len(list))
	for _, r := range list {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
