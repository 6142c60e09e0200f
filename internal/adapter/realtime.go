// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/coder/websocket"
)

const (
	minRedialDelay = 500 * time.Millisecond
	maxRedialDelay = 30 * time.Second
)

// Subscribe implements [RemoteStore]. It keeps a WebSocket connection to
// /api/realtime/{table} open, redialing with exponential backoff whenever the
// connection drops. The first dial happens in the background, so subscribing
// while offline succeeds and starts delivering events once the store is
// reachable.
func (h *httpRemoteStore) Subscribe(ctx context.Context, table, userID string, onChange func(models.ChangeEvent)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.feedLoop(ctx, table, userID, onChange)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}, nil
}

func (h *httpRemoteStore) feedLoop(ctx context.Context, table, userID string, onChange func(models.ChangeEvent)) {
	log := h.logger.With().Str("func", "httpRemoteStore.feedLoop").Str("table", table).Logger()
	delay := minRedialDelay

	for {
		err := h.readFeed(ctx, table, onChange, func() { delay = minRedialDelay })
		if ctx.Err() != nil {
			return
		}
		log.Debug().Err(err).Dur("retry_in", delay).Msg("change feed disconnected")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxRedialDelay {
			delay = maxRedialDelay
		}
	}
}

func (h *httpRemoteStore) readFeed(ctx context.Context, table string, onChange func(models.ChangeEvent), connected func()) error {
	header := http.Header{}
	if h.token != "" {
		header.Set("Authorization", "Bearer "+h.token)
	}

	conn, _, err := websocket.Dial(ctx, h.realtimeURL(table), &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return err
	}
	defer conn.CloseNow()
	connected()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var evt models.ChangeEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			h.logger.Warn().Err(err).Str("table", table).Msg("skip undecodable change event")
			continue
		}
		if evt.Table == "" {
			evt.Table = table
		}
		onChange(evt)
	}
}

func (h *httpRemoteStore) realtimeURL(table string) string {
	base := h.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + realtimePath + table
}
