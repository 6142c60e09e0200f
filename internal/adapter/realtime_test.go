// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealtimeURL(t *testing.T) {
	s := &httpRemoteStore{baseURL: "https://sync.example.com"}
	assert.Equal(t, "wss://sync.example.com/api/realtime/bills", s.realtimeURL("bills"))

	s.baseURL = "http://localhost:8080"
	assert.Equal(t, "ws://localhost:8080/api/realtime/bills", s.realtimeURL("bills"))
}

func TestSubscribe_DeliversEvents(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/realtime/bills", r.URL.Path)
		gotAuth.Store(r.Header.Get("Authorization"))

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()

		data, _ := json.Marshal(models.ChangeEvent{Type: models.ChangeInsert, RecordID: "b1", UserID: "user-1"})
		_ = conn.Write(r.Context(), websocket.MessageText, data)
		_ = conn.Write(r.Context(), websocket.MessageText, []byte("not json"))

		// hold the connection until the client goes away
		_, _, _ = conn.Read(r.Context())
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)

	var mu sync.Mutex
	var events []models.ChangeEvent
	unsubscribe, err := s.Subscribe(context.Background(), "bills", "user-1", func(evt models.ChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, evt)
	})
	require.NoError(t, err)
	defer unsubscribe()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "bills", events[0].Table)
	assert.Equal(t, "b1", events[0].RecordID)
	mu.Unlock()
	assert.Equal(t, "Bearer test-token", gotAuth.Load())
}

func TestSubscribe_OfflineDoesNotFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := newTestStore(t, url)
	unsubscribe, err := s.Subscribe(context.Background(), "bills", "user-1", func(models.ChangeEvent) {})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		unsubscribe()
		unsubscribe()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("unsubscribe did not return")
	}
}
