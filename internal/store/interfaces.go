// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-fin-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KeyValueRepository is the client's local persistence boundary. Values are
// opaque JSON documents stored under namespaced keys such as
// "offline_queue:<userID>".
type KeyValueRepository interface {
	// Get returns the stored value or [ErrKeyNotFound].
	Get(ctx context.Context, key string) ([]byte, error)
	// Set creates or replaces the value of key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists the stored keys starting with prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// RowRepository persists the rows of every remote table in a single
// user-scoped table.
type RowRepository interface {
	Select(ctx context.Context, table, userID string) ([]models.StoredRow, error)
	Insert(ctx context.Context, rows []models.StoredRow) ([]models.StoredRow, error)
	Upsert(ctx context.Context, rows []models.StoredRow) ([]models.StoredRow, error)
	Update(ctx context.Context, row models.StoredRow) (models.StoredRow, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, table, userID, id string) (bool, error)
	Ping(ctx context.Context) error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
