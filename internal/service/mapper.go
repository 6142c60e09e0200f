// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
)

// RowMapper converts between the remote row shape of a table and the local
// record type.
type RowMapper[T models.Record] interface {
	FromRow(raw json.RawMessage) (T, error)
	ToRow(record T) (json.RawMessage, error)
}

// rowMapper implements RowMapper through an intermediate row struct R that
// mirrors the remote columns.
type rowMapper[T models.Record, R any] struct {
	toRecord func(R) T
	toRow    func(T) R
}

func (m rowMapper[T, R]) FromRow(raw json.RawMessage) (T, error) {
	var (
		zero T
		row  R
	)
	if err := json.Unmarshal(raw, &row); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}

	record := m.toRecord(row)
	if record.RecordID() == "" {
		return zero, fmt.Errorf("%w: missing id", ErrMalformedRow)
	}
	return record, nil
}

func (m rowMapper[T, R]) ToRow(record T) (json.RawMessage, error) {
	return json.Marshal(m.toRow(record))
}

// ── shared field helpers ─────────────────────────────────────────────────────

// dateLayout is the remote format of date-only columns.
const dateLayout = "2006-01-02"

// parseTime accepts RFC 3339 timestamps and plain dates. Anything else,
// including an empty value, yields the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	return time.Time{}
}

func parseOptionalTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseTime(*s)
	if t.IsZero() {
		return nil
	}
	return &t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
