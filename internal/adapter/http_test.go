// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore создаёт httpRemoteStore, направленный на тестовый сервер
func newTestStore(t *testing.T, serverURL string) *httpRemoteStore {
	t.Helper()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 2 * time.Second, Token: "test-token"}

	s, err := NewHTTPRemoteStore(adapterCfg, logger.Nop())
	require.NoError(t, err)
	return s.(*httpRemoteStore)
}

func writeRows(t *testing.T, w http.ResponseWriter, status int, rows ...string) {
	t.Helper()
	raw := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		raw = append(raw, json.RawMessage(r))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(models.RowsResponse{Rows: raw, Length: len(raw)}))
}

// ── normalizeBaseURL ─────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "localhost:8080", want: "http://localhost:8080"},
		{in: " https://sync.example.com/ ", want: "https://sync.example.com"},
		{in: "", wantErr: true},
		{in: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHTTPRemoteStore_InvalidAddress(t *testing.T) {
	_, err := NewHTTPRemoteStore(config.ClientAdapter{}, logger.Nop())
	assert.Error(t, err)
}

// ── Select ───────────────────────────────────────────────────────────────────

func TestSelect_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tables/bills/rows", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeRows(t, w, http.StatusOK, `{"id":"b1"}`, `{"id":"b2"}`)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	rows, err := s.Select(context.Background(), "bills", "user-1")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.JSONEq(t, `{"id":"b1"}`, string(rows[0]))
}

func TestSelect_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid token"))
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	_, err := s.Select(context.Background(), "bills", "user-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestSelect_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := newTestStore(t, url)
	_, err := s.Select(context.Background(), "bills", "user-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

// ── Insert / Upsert ──────────────────────────────────────────────────────────

func TestInsert_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("row already exists"))
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	_, err := s.Insert(context.Background(), "bills", "user-1", []json.RawMessage{json.RawMessage(`{"id":"b1"}`)})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpsert_SendsArrayBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tables/transactions/rows", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"t1","amount":10}]`, string(body))

		writeRows(t, w, http.StatusOK, `{"id":"t1","amount":10,"user_id":"user-1"}`)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	rows, err := s.Upsert(context.Background(), "transactions", "user-1",
		[]json.RawMessage{json.RawMessage(`{"id":"t1","amount":10}`)})

	require.NoError(t, err)
	require.Len(t, rows, 1)
}

// ── Update / Delete ──────────────────────────────────────────────────────────

func TestUpdate_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/tables/loans/rows/l1", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	_, err := s.Update(context.Background(), "loans", "user-1", "l1", json.RawMessage(`{"id":"l1"}`))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/tables/bills/rows/b1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	assert.NoError(t, s.Delete(context.Background(), "bills", "user-1", "b1"))
}

func TestDelete_InternalServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	err := s.Delete(context.Background(), "bills", "user-1", "b1")

	assert.ErrorIs(t, err, ErrInternalServerError)
}

// ── Ping ─────────────────────────────────────────────────────────────────────

func TestPing(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL)
	assert.NoError(t, s.Ping(context.Background()))

	status.Store(http.StatusServiceUnavailable)
	assert.ErrorIs(t, s.Ping(context.Background()), ErrUnavailable)
}

// ── mapHTTPError ─────────────────────────────────────────────────────────────

func TestMapHTTPError_StatusTable(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusServiceUnavailable, ErrUnavailable},
		{http.StatusInternalServerError, ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			s := newTestStore(t, srv.URL)
			_, err := s.Select(context.Background(), "bills", "user-1")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
