// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
)

type memoryRow struct {
	id   string
	data json.RawMessage
}

type memorySubscriber struct {
	id       int
	table    string
	userID   string
	onChange func(models.ChangeEvent)
}

// MemoryRemoteStore is an in-process [RemoteStore]. Rows keep insertion
// order; change events are delivered asynchronously, like a real feed.
type MemoryRemoteStore struct {
	mu        sync.Mutex
	tables    map[string]map[string][]memoryRow // table -> user -> rows
	subs      map[int]memorySubscriber
	nextSubID int
	available bool
	calls     map[models.QueryKind]int
}

// NewMemoryRemoteStore returns an empty, available store.
func NewMemoryRemoteStore() *MemoryRemoteStore {
	return &MemoryRemoteStore{
		tables:    make(map[string]map[string][]memoryRow),
		subs:      make(map[int]memorySubscriber),
		available: true,
		calls:     make(map[models.QueryKind]int),
	}
}

// SetAvailable toggles failure injection: while unavailable every call fails
// with [ErrUnavailable].
func (m *MemoryRemoteStore) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}

// Calls returns how many operations of kind reached the store.
func (m *MemoryRemoteStore) Calls(kind models.QueryKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[kind]
}

// Rows returns a copy of the rows of table owned by userID.
func (m *MemoryRemoteStore) Rows(table, userID string) []json.RawMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return rawRows(m.tables[table][userID])
}

// Select implements [RemoteStore].
func (m *MemoryRemoteStore) Select(ctx context.Context, table, userID string) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(ctx, models.QuerySelect); err != nil {
		return nil, err
	}
	return rawRows(m.tables[table][userID]), nil
}

// Insert implements [RemoteStore].
func (m *MemoryRemoteStore) Insert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error) {
	m.mu.Lock()
	if err := m.enter(ctx, models.QueryInsert); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	prepared, err := prepareRows(rows, userID)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	existing := m.userRows(table, userID)
	for _, r := range prepared {
		if indexOf(existing, r.id) >= 0 {
			m.mu.Unlock()
			return nil, fmt.Errorf("%w: row %s already exists", ErrConflict, r.id)
		}
	}
	m.tables[table][userID] = append(existing, prepared...)
	events := m.eventsFor(table, userID, models.ChangeInsert, prepared)
	m.mu.Unlock()

	m.dispatch(events)
	return rawRows(prepared), nil
}

// Update implements [RemoteStore].
func (m *MemoryRemoteStore) Update(ctx context.Context, table, userID, id string, row json.RawMessage) ([]json.RawMessage, error) {
	m.mu.Lock()
	if err := m.enter(ctx, models.QueryUpdate); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	prepared, err := prepareRows([]json.RawMessage{row}, userID)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	prepared[0].id = id

	existing := m.userRows(table, userID)
	idx := indexOf(existing, id)
	if idx < 0 {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: row %s", ErrNotFound, id)
	}
	existing[idx] = prepared[0]
	events := m.eventsFor(table, userID, models.ChangeUpdate, prepared)
	m.mu.Unlock()

	m.dispatch(events)
	return rawRows(prepared), nil
}

// Upsert implements [RemoteStore].
func (m *MemoryRemoteStore) Upsert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error) {
	m.mu.Lock()
	if err := m.enter(ctx, models.QueryUpsert); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	prepared, err := prepareRows(rows, userID)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	var events []func()
	for _, r := range prepared {
		existing := m.userRows(table, userID)
		kind := models.ChangeUpdate
		if idx := indexOf(existing, r.id); idx >= 0 {
			existing[idx] = r
		} else {
			kind = models.ChangeInsert
			m.tables[table][userID] = append(existing, r)
		}
		events = append(events, m.eventsFor(table, userID, kind, []memoryRow{r})...)
	}
	m.mu.Unlock()

	m.dispatch(events)
	return rawRows(prepared), nil
}

// Delete implements [RemoteStore].
func (m *MemoryRemoteStore) Delete(ctx context.Context, table, userID, id string) error {
	m.mu.Lock()
	if err := m.enter(ctx, models.QueryDelete); err != nil {
		m.mu.Unlock()
		return err
	}

	existing := m.userRows(table, userID)
	idx := indexOf(existing, id)
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	m.tables[table][userID] = append(existing[:idx:idx], existing[idx+1:]...)
	events := m.eventsFor(table, userID, models.ChangeDelete, []memoryRow{{id: id}})
	m.mu.Unlock()

	m.dispatch(events)
	return nil
}

// Subscribe implements [RemoteStore]. Events are only delivered while the
// store is available.
func (m *MemoryRemoteStore) Subscribe(ctx context.Context, table, userID string, onChange func(models.ChangeEvent)) (func(), error) {
	m.mu.Lock()
	m.nextSubID++
	id := m.nextSubID
	m.subs[id] = memorySubscriber{id: id, table: table, userID: userID, onChange: onChange}
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return cancel, nil
}

// Ping implements [RemoteStore].
func (m *MemoryRemoteStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.available {
		return ErrUnavailable
	}
	return nil
}

// Subscribers returns the number of active change feeds.
func (m *MemoryRemoteStore) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// enter must be called with mu held.
func (m *MemoryRemoteStore) enter(ctx context.Context, kind models.QueryKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.available {
		return fmt.Errorf("%s: %w", kind, ErrUnavailable)
	}
	m.calls[kind]++
	return nil
}

// userRows must be called with mu held.
func (m *MemoryRemoteStore) userRows(table, userID string) []memoryRow {
	if m.tables[table] == nil {
		m.tables[table] = make(map[string][]memoryRow)
	}
	return m.tables[table][userID]
}

// eventsFor must be called with mu held. It snapshots the matching
// subscribers so delivery happens outside the lock.
func (m *MemoryRemoteStore) eventsFor(table, userID string, kind models.ChangeType, rows []memoryRow) []func() {
	now := time.Now().UTC()
	var out []func()
	for _, sub := range m.subs {
		if sub.table != table || sub.userID != userID {
			continue
		}
		for _, r := range rows {
			evt := models.ChangeEvent{Table: table, Type: kind, RecordID: r.id, UserID: userID, CommitTime: now}
			fn := sub.onChange
			out = append(out, func() { fn(evt) })
		}
	}
	return out
}

func (m *MemoryRemoteStore) dispatch(events []func()) {
	for _, fn := range events {
		go fn()
	}
}

// prepareRows validates that every row is a JSON object with an id and
// stamps the owning user id onto it.
func prepareRows(rows []json.RawMessage, userID string) ([]memoryRow, error) {
	out := make([]memoryRow, 0, len(rows))
	for _, raw := range rows {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		id, _ := obj["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("%w: row without id", ErrBadRequest)
		}
		obj["user_id"] = userID

		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		out = append(out, memoryRow{id: id, data: data})
	}
	return out, nil
}

func indexOf(rows []memoryRow, id string) int {
	for i, r := range rows {
		if r.id == id {
			return i
		}
	}
	return -1
}

func rawRows(rows []memoryRow) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, append(json.RawMessage(nil), r.data...))
	}
	return out
}
