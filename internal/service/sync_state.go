// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
)

// ErrSyncAborted ends a sync operation without an outcome: it neither stamps
// LastSyncTime nor records an error.
var ErrSyncAborted = errors.New("sync aborted")

// StateObserver receives the full sync state after every change.
type StateObserver func(models.SyncState)

type observer struct {
	id uint64
	fn StateObserver
}

// SyncStateMachine tracks connectivity and the outcome of sync operations.
//
// Overlapping operations form a burst: IsSyncing stays true until the last
// one ends, and the burst ends in online-error if any of its operations
// failed. Observers run synchronously on the goroutine that caused the change
// and must not block.
type SyncStateMachine struct {
	mu        sync.Mutex
	state     models.SyncState
	active    int
	burstErr  error
	burstOK   bool
	nextID    uint64
	observers []observer
	hooks     []observer
	closed    bool

	now func() time.Time
}

// NewSyncStateMachine returns a machine in offline or online-idle depending on
// the current connectivity.
func NewSyncStateMachine(online bool) *SyncStateMachine {
	m := &SyncStateMachine{now: time.Now}
	m.state.IsOnline = online
	m.state.Phase = m.phaseLocked()
	return m
}

// State returns a snapshot of the current state.
func (m *SyncStateMachine) State() models.SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

func (m *SyncStateMachine) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsOnline
}

func (m *SyncStateMachine) IsSyncing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsSyncing
}

// SetOnline applies a connectivity signal. Going from offline to online
// clears the previous error and runs the reconnect hooks before returning.
func (m *SyncStateMachine) SetOnline(online bool) {
	m.mu.Lock()
	if m.closed || m.state.IsOnline == online {
		m.mu.Unlock()
		return
	}
	m.state.IsOnline = online
	if online {
		m.state.SyncError = nil
	}
	snapshot, observers := m.changedLocked()

	var hooks []func()
	if online {
		for _, h := range m.hooks {
			fn := h.fn
			hooks = append(hooks, func() { fn(snapshot) })
		}
	}
	m.mu.Unlock()

	notify(observers, snapshot)
	for _, h := range hooks {
		h()
	}
}

// BeginSync marks the start of a network round-trip. The returned func ends
// it; only its first call has an effect. Pass [ErrSyncAborted] when the
// operation was cancelled before it had a result.
func (m *SyncStateMachine) BeginSync() func(err error) {
	m.mu.Lock()
	m.active++
	var (
		snapshot  models.SyncState
		observers []StateObserver
	)
	if !m.state.IsSyncing {
		m.state.IsSyncing = true
		snapshot, observers = m.changedLocked()
	}
	m.mu.Unlock()
	notify(observers, snapshot)

	var once sync.Once
	return func(err error) {
		once.Do(func() { m.endSync(err) })
	}
}

func (m *SyncStateMachine) endSync(err error) {
	m.mu.Lock()
	m.active--
	switch {
	case errors.Is(err, ErrSyncAborted):
	case err != nil:
		m.burstErr = err
	default:
		m.burstOK = true
	}
	if m.active > 0 {
		m.mu.Unlock()
		return
	}

	m.state.IsSyncing = false
	switch {
	case m.burstErr != nil:
		msg := m.burstErr.Error()
		m.state.SyncError = &msg
	case m.burstOK:
		now := m.now()
		m.state.LastSyncTime = &now
		m.state.SyncError = nil
	}
	m.burstErr = nil
	m.burstOK = false
	snapshot, observers := m.changedLocked()
	m.mu.Unlock()

	notify(observers, snapshot)
}

// OnSyncStateChange registers cb and returns a func that removes it.
func (m *SyncStateMachine) OnSyncStateChange(cb StateObserver) func() {
	return m.register(&m.observers, cb)
}

// OnReconnect registers hook to run on every offline to online transition.
func (m *SyncStateMachine) OnReconnect(hook func()) func() {
	return m.register(&m.hooks, func(models.SyncState) { hook() })
}

// Close drops every observer and hook. Later signals are ignored.
func (m *SyncStateMachine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.observers = nil
	m.hooks = nil
}

func (m *SyncStateMachine) register(list *[]observer, fn StateObserver) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	*list = append(*list, observer{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		*list = slices.DeleteFunc(*list, func(o observer) bool { return o.id == id })
	}
}

func (m *SyncStateMachine) phaseLocked() models.SyncPhase {
	switch {
	case !m.state.IsOnline:
		return models.PhaseOffline
	case m.state.IsSyncing:
		return models.PhaseSyncing
	case m.state.SyncError != nil:
		return models.PhaseError
	default:
		return models.PhaseIdle
	}
}

// changedLocked refreshes the phase and captures what to deliver.
func (m *SyncStateMachine) changedLocked() (models.SyncState, []StateObserver) {
	m.state.Phase = m.phaseLocked()
	fns := make([]StateObserver, 0, len(m.observers))
	for _, o := range m.observers {
		fns = append(fns, o.fn)
	}
	return m.state.Clone(), fns
}

func notify(observers []StateObserver, snapshot models.SyncState) {
	for _, fn := range observers {
		fn(snapshot.Clone())
	}
}
