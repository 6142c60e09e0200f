// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/mock"
	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testUser    = "user-1"
	testSignKey = "test-sign-key"
	testIssuer  = "fin-sync"
	testVersion = "1.2.3"
)

type testEnv struct {
	router *chi.Mux
	rows   *mock.MockRowService
	hub    *service.ChangeHub
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	rows := mock.NewMockRowService(ctrl)
	hub := service.NewChangeHub(logger.Nop())
	services := &service.Services{RowService: rows, ChangeHub: hub}

	cfg := config.ServerConfig{
		RequestTimeout: 5 * time.Second,
		TokenSignKey:   testSignKey,
		TokenIssuer:    testIssuer,
		Version:        testVersion,
	}
	h := NewHandler(services, cfg, logger.Nop())

	return &testEnv{router: h.Init(), rows: rows, hub: hub, token: signToken(t, testUser)}
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(testIssuer, userID, time.Hour, testSignKey)
	require.NoError(t, err)
	return token.SignedString
}

// do выполняет запрос с токеном пользователя
func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+e.token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
