// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// StoredRow is one row of a remote table as persisted by the remote store
// server. Data is the full JSON object, including its "id" and "user_id".
type StoredRow struct {
	Table     string
	ID        string
	UserID    string
	Data      json.RawMessage
	UpdatedAt time.Time
}
