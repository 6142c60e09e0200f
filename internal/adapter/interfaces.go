// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client's connection to the remote store.
//
// [RemoteStore] is the raw connection handle: table CRUD plus a per-table
// change feed, scoped by user. The package ships an HTTP/WebSocket
// implementation ([NewHTTPRemoteStore]) and an in-process one
// ([NewMemoryRemoteStore]) used by tests.
//
// [Gateway] wraps exactly one RemoteStore per process. It injects the user
// scope into every operation, caps the number of in-flight calls and turns
// every failure into a value inside [models.RemoteResult].
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-fin-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteStore is a user-scoped table store with a change feed.
// Implementations map transport failures to the sentinel errors of this
// package.
type RemoteStore interface {
	// Select returns every row of table owned by userID.
	Select(ctx context.Context, table, userID string) ([]json.RawMessage, error)

	// Insert creates rows. A row whose id already exists yields [ErrConflict].
	Insert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error)

	// Update replaces the row identified by id. A missing row yields
	// [ErrNotFound].
	Update(ctx context.Context, table, userID, id string, row json.RawMessage) ([]json.RawMessage, error)

	// Upsert inserts rows or replaces existing rows with the same id.
	Upsert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error)

	// Delete removes the row identified by id. Deleting a missing row
	// succeeds.
	Delete(ctx context.Context, table, userID, id string) error

	// Subscribe starts a change feed for table. onChange is invoked for every
	// row event until the returned cancel func is called or ctx ends.
	Subscribe(ctx context.Context, table, userID string, onChange func(models.ChangeEvent)) (func(), error)

	// Ping checks that the remote store is reachable.
	Ping(ctx context.Context) error
}

// Gateway is the single entry point for remote calls of the sync layer.
type Gateway interface {
	// Call executes op scoped by the current user. Failures are reported in
	// the result; Call never panics.
	Call(ctx context.Context, op models.RemoteOperation) models.RemoteResult

	// SubscribeToChanges opens a change feed for table. The returned func
	// releases it.
	SubscribeToChanges(ctx context.Context, table, userID string, onChange func(models.ChangeEvent)) (func(), error)

	// Ping probes the remote store outside the concurrency cap.
	Ping(ctx context.Context) error

	// UserID returns the id every call is scoped by.
	UserID() string

	// SetUserID changes the scoping user id.
	SetUserID(userID string)
}
