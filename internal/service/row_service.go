// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
	"github.com/MKhiriev/go-fin-sync/models"
)

type rowService struct {
	repo store.RowRepository
	feed ChangeFeed

	logger *logger.Logger
}

// NewRowService constructs the server [RowService]. Every successful write is
// announced on feed.
func NewRowService(repo store.RowRepository, feed ChangeFeed, log *logger.Logger) RowService {
	return &rowService{repo: repo, feed: feed, logger: log}
}

// validTable accepts the synced collections and the profiles table.
func validTable(table string) error {
	if table == models.TableProfiles || models.Collection(table).Valid() {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownTable, table)
}

func (s *rowService) Select(ctx context.Context, table, userID string) ([]json.RawMessage, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}

	rows, err := s.repo.Select(ctx, table, userID)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rowsData(rows), nil
}

func (s *rowService) Insert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error) {
	return s.writeRows(ctx, table, userID, rows, models.ChangeInsert, s.repo.Insert)
}

func (s *rowService) Upsert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error) {
	return s.writeRows(ctx, table, userID, rows, models.ChangeUpdate, s.repo.Upsert)
}

func (s *rowService) writeRows(ctx context.Context, table, userID string, rows []json.RawMessage, change models.ChangeType,
	write func(context.Context, []models.StoredRow) ([]models.StoredRow, error)) ([]json.RawMessage, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRowsProvided
	}

	prepared := make([]models.StoredRow, 0, len(rows))
	for i, raw := range rows {
		row, err := prepareRow(table, userID, "", raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		prepared = append(prepared, row)
	}

	saved, err := write(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", change, table, err)
	}

	for _, row := range saved {
		s.announce(table, userID, row.ID, change)
	}
	return rowsData(saved), nil
}

func (s *rowService) Update(ctx context.Context, table, userID, id string, raw json.RawMessage) (json.RawMessage, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}

	row, err := prepareRow(table, userID, id, raw)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}

	s.announce(table, userID, id, models.ChangeUpdate)
	return saved.Data, nil
}

// Delete is idempotent: removing a missing row succeeds without an event.
func (s *rowService) Delete(ctx context.Context, table, userID, id string) error {
	if err := validTable(table); err != nil {
		return err
	}
	if id == "" {
		return ErrMissingRowID
	}

	deleted, err := s.repo.Delete(ctx, table, userID, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if deleted {
		s.announce(table, userID, id, models.ChangeDelete)
	}
	return nil
}

func (s *rowService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *rowService) announce(table, userID, id string, change models.ChangeType) {
	s.feed.Publish(models.ChangeEvent{
		Table:      table,
		Type:       change,
		RecordID:   id,
		UserID:     userID,
		CommitTime: time.Now().UTC(),
	})
}

// prepareRow checks that raw is an object with an id and stamps the owner.
// pathID, when set, must match the id of the body if the body has one.
func prepareRow(table, userID, pathID string, raw json.RawMessage) (models.StoredRow, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return models.StoredRow{}, ErrInvalidRow
	}

	var id string
	if rawID, ok := obj["id"]; ok {
		if err := json.Unmarshal(rawID, &id); err != nil {
			return models.StoredRow{}, fmt.Errorf("%w: id must be a string", ErrInvalidRow)
		}
	}

	switch {
	case pathID != "" && id != "" && id != pathID:
		return models.StoredRow{}, ErrRowIDMismatch
	case pathID != "":
		id = pathID
	case id == "":
		return models.StoredRow{}, ErrMissingRowID
	}

	obj["id"], _ = json.Marshal(id)
	obj["user_id"], _ = json.Marshal(userID)

	data, err := json.Marshal(obj)
	if err != nil {
		return models.StoredRow{}, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}

	return models.StoredRow{Table: table, ID: id, UserID: userID, Data: data}, nil
}

func rowsData(rows []models.StoredRow) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Data)
	}
	return out
}
