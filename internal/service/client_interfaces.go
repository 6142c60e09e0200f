// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-fin-sync/internal/state"
)

// SyncChannel is the collection-independent view of a [Channel] used by the
// sync service.
type SyncChannel interface {
	Replayer
	state.MutationSink

	Start(ctx context.Context) error
	Stop()
	FetchAndUpdate(ctx context.Context) error
	Flush()
}
