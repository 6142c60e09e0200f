// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// SyncPhase is the state of the sync state machine.
type SyncPhase string

const (
	PhaseOffline SyncPhase = "offline"
	PhaseIdle    SyncPhase = "online-idle"
	PhaseSyncing SyncPhase = "online-syncing"
	PhaseError   SyncPhase = "online-error"
)

// SyncState is the process-wide sync status observed by the UI.
// It is never persisted.
type SyncState struct {
	Phase        SyncPhase  `json:"phase"`
	IsOnline     bool       `json:"isOnline"`
	IsSyncing    bool       `json:"isSyncing"`
	LastSyncTime *time.Time `json:"lastSyncTime,omitempty"`
	SyncError    *string    `json:"syncError,omitempty"`
}

// Clone returns a deep copy so observers can keep the snapshot.
func (s SyncState) Clone() SyncState {
	out := s
	if s.LastSyncTime != nil {
		t := *s.LastSyncTime
		out.LastSyncTime = &t
	}
	if s.SyncError != nil {
		e := *s.SyncError
		out.SyncError = &e
	}
	return out
}

// QueueEntry is a mutation that could not reach the remote store.
// Record is the full local record snapshot taken at enqueue time.
type QueueEntry struct {
	Collection Collection      `json:"collection"`
	ID         string          `json:"id"`
	Record     json.RawMessage `json:"record"`
	Mutation   Mutation        `json:"operation"`
	EnqueuedAt time.Time       `json:"timestamp"`
}

// ChangeType is the kind of row event carried by the change feed.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent notifies that a row of a watched table changed. It carries no
// row data: subscribers always re-fetch.
type ChangeEvent struct {
	Table      string     `json:"table"`
	Type       ChangeType `json:"type"`
	RecordID   string     `json:"record_id"`
	UserID     string     `json:"user_id"`
	CommitTime time.Time  `json:"commit_time"`
}
