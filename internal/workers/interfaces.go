// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides the background workers of the sync client and a
// Workers aggregate that runs them together.
package workers

import (
	"context"

	"github.com/MKhiriev/go-fin-sync/models"
)

// Worker is the interface that must be implemented by any background worker.
// Run blocks until ctx is cancelled.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    <-ctx.Done()
//	}
type Worker interface {
	Run(ctx context.Context)
}

// Pinger probes the remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectivitySink receives connectivity signals.
type ConnectivitySink interface {
	SetOnline(online bool)
}

// Syncer is the part of the sync service the refresh job drives.
type Syncer interface {
	State() models.SyncState
	QueueLen() int
	RetrySync(ctx context.Context) error
}
