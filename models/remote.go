// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// QueryKind is a row-level operation supported by the remote store.
type QueryKind string

const (
	QuerySelect QueryKind = "select"
	QueryInsert QueryKind = "insert"
	QueryUpdate QueryKind = "update"
	QueryUpsert QueryKind = "upsert"
	QueryDelete QueryKind = "delete"
)

// RemoteOperation is a single request issued through the connection gateway.
// The gateway adds the user scope; callers never set it.
//
// ID is required for update and delete. Rows carries the JSON objects for
// insert, update (exactly one row) and upsert.
type RemoteOperation struct {
	Kind  QueryKind
	Table string
	ID    string
	Rows  []json.RawMessage
}

// RemoteResult is the outcome of a RemoteOperation. Failures are values, never
// panics: exactly one of Data (possibly empty) or Err is meaningful.
type RemoteResult struct {
	Data []json.RawMessage
	Err  error
}

// OK reports whether the operation succeeded.
func (r RemoteResult) OK() bool {
	return r.Err == nil
}

// RowsResponse is the body returned by the row endpoints of the remote store.
type RowsResponse struct {
	Rows   []json.RawMessage `json:"rows"`
	Length int               `json:"length"`
}
