// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
)

const (
	DefaultProbeInterval = 10 * time.Second
	maxProbeTimeout      = 5 * time.Second
)

// ConnectivityMonitor probes the remote store on a ticker and reports every
// change of reachability to the sink. The first probe runs immediately.
type ConnectivityMonitor struct {
	pinger   Pinger
	sink     ConnectivitySink
	interval time.Duration
	logger   *logger.Logger

	known  bool
	online bool
}

// NewConnectivityMonitor creates a monitor. If interval is zero or negative it
// defaults to DefaultProbeInterval.
func NewConnectivityMonitor(pinger Pinger, sink ConnectivitySink, interval time.Duration, log *logger.Logger) *ConnectivityMonitor {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &ConnectivityMonitor{pinger: pinger, sink: sink, interval: interval, logger: log}
}

func (m *ConnectivityMonitor) Run(ctx context.Context) {
	t := time.NewTicker(m.interval)
	defer t.Stop()

	m.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.probe(ctx)
		}
	}
}

func (m *ConnectivityMonitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, min(m.interval, maxProbeTimeout))
	err := m.pinger.Ping(probeCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	online := err == nil
	if m.known && m.online == online {
		return
	}
	m.known, m.online = true, online

	if online {
		m.logger.Info().Str("func", "*ConnectivityMonitor.probe").Msg("remote store reachable")
	} else {
		m.logger.Warn().Err(err).Str("func", "*ConnectivityMonitor.probe").Msg("remote store unreachable")
	}
	m.sink.SetOnline(online)
}
