// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-fin-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// RowService implements user-scoped table CRUD for the remote store server.
type RowService interface {
	Select(ctx context.Context, table, userID string) ([]json.RawMessage, error)
	Insert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error)
	Upsert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error)
	Update(ctx context.Context, table, userID, id string, row json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, table, userID, id string) error
	Ping(ctx context.Context) error
}

// ChangeFeed fans row change events out to subscribers of a table.
type ChangeFeed interface {
	Publish(evt models.ChangeEvent)
	Subscribe(table, userID string) (<-chan models.ChangeEvent, func())
}
