// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
)

const DefaultRefreshInterval = 5 * time.Minute

// RefreshJob retries the sync on a ticker while there is something to
// recover: queued mutations or the error of the last burst. It stays idle
// while offline or while a sync is already running.
type RefreshJob struct {
	syncer   Syncer
	interval time.Duration
	logger   *logger.Logger
}

// NewRefreshJob creates a refresh job. If interval is zero or negative it
// defaults to DefaultRefreshInterval.
func NewRefreshJob(syncer Syncer, interval time.Duration, log *logger.Logger) *RefreshJob {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RefreshJob{syncer: syncer, interval: interval, logger: log}
}

func (j *RefreshJob) Run(ctx context.Context) {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			j.tick(ctx)
		}
	}
}

func (j *RefreshJob) tick(ctx context.Context) {
	st := j.syncer.State()
	if !st.IsOnline || st.IsSyncing {
		return
	}

	queued := j.syncer.QueueLen()
	if queued == 0 && st.SyncError == nil {
		return
	}

	if err := j.syncer.RetrySync(ctx); err != nil {
		j.logger.Warn().Err(err).Str("func", "*RefreshJob.tick").Int("queued", queued).Msg("retry sync failed")
		return
	}
	j.logger.Debug().Str("func", "*RefreshJob.tick").Int("replayed", queued).Msg("retry sync finished")
}
