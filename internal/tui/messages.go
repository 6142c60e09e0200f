// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/MKhiriev/go-fin-sync/models"

// stateMsg carries a sync state snapshot pushed by the state machine.
type stateMsg struct {
	state    models.SyncState
	queueLen int
}

// countsMsg reports collection sizes.
type countsMsg struct {
	counts map[models.Collection]int
}

type retryDoneMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
