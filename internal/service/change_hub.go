// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
)

// changeSubscriberBuffer is the number of undelivered events a subscriber may
// lag behind before events are dropped for it.
const changeSubscriberBuffer = 64

type changeSubscriber struct {
	table  string
	userID string
	ch     chan models.ChangeEvent
}

// ChangeHub is the in-process [ChangeFeed] of the remote store server.
type ChangeHub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]changeSubscriber

	logger *logger.Logger
}

func NewChangeHub(log *logger.Logger) *ChangeHub {
	return &ChangeHub{subs: make(map[uint64]changeSubscriber), logger: log}
}

// Subscribe returns a channel of events for table and userID and a func that
// closes it.
func (h *ChangeHub) Subscribe(table, userID string) (<-chan models.ChangeEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	sub := changeSubscriber{table: table, userID: userID, ch: make(chan models.ChangeEvent, changeSubscriberBuffer)}
	h.subs[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(sub.ch)
		})
	}
}

// Publish delivers evt to every matching subscriber without blocking. A full
// subscriber misses the event.
func (h *ChangeHub) Publish(evt models.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if sub.table != evt.Table || sub.userID != evt.UserID {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			h.logger.Warn().Str("func", "*ChangeHub.Publish").Str("table", evt.Table).
				Msg("subscriber buffer full, dropping change event")
		}
	}
}

// Len returns the number of subscribers.
func (h *ChangeHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
