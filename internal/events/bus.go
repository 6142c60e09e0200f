// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events carries typed notifications from the sync layer to the
// local state store without either side referencing the other.
package events

import (
	"slices"
	"sync"

	"github.com/MKhiriev/go-fin-sync/models"
)

// CollectionUpdated announces the full, freshly fetched contents of one
// collection for one user.
type CollectionUpdated struct {
	Collection models.Collection
	UserID     string
	Records    []models.Record
}

// Handler receives published events.
type Handler func(CollectionUpdated)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches events synchronously to every subscriber in subscription
// order. Publishing from inside a handler is allowed.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a func that removes it. The returned func
// is safe to call more than once.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.id == id })
	}
}

// Publish delivers e to a snapshot of the current subscribers.
func (b *Bus) Publish(e CollectionUpdated) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
