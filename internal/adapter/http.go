// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/go-resty/resty/v2"
)

const (
	healthPath   = "/health"
	rowsPath     = "/api/tables/{table}/rows"
	rowPath      = "/api/tables/{table}/rows/{id}"
	realtimePath = "/api/realtime/"
)

type httpRemoteStore struct {
	client  *utils.HTTPClient
	baseURL string
	token   string

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the REST + WebSocket implementation of
// [RemoteStore]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL, request timeout and bearer token.
//
// The user scope is carried by the bearer token, so the userID arguments of
// the interface are only used for logging.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	token := strings.TrimSpace(adapterCfg.Token)
	client := utils.NewRemoteStoreClient(baseURL, adapterCfg.RequestTimeout, token)

	return &httpRemoteStore{client: client, baseURL: baseURL, token: token, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Select implements [RemoteStore]. GET /api/tables/{table}/rows.
func (h *httpRemoteStore) Select(ctx context.Context, table, userID string) ([]json.RawMessage, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("table", table).
		Get(rowsPath)
	if err != nil {
		return nil, fmt.Errorf("select %s request: %w: %w", table, ErrUnavailable, err)
	}

	return decodeRows(resp)
}

// Insert implements [RemoteStore]. POST /api/tables/{table}/rows with a JSON
// array body; 409 maps to [ErrConflict].
func (h *httpRemoteStore) Insert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("table", table).
		SetBody(rows).
		Post(rowsPath)
	if err != nil {
		return nil, fmt.Errorf("insert %s request: %w: %w", table, ErrUnavailable, err)
	}

	return decodeRows(resp)
}

// Update implements [RemoteStore]. PATCH /api/tables/{table}/rows/{id}.
func (h *httpRemoteStore) Update(ctx context.Context, table, userID, id string, row json.RawMessage) ([]json.RawMessage, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParams(map[string]string{"table": table, "id": id}).
		SetBody(row).
		Patch(rowPath)
	if err != nil {
		return nil, fmt.Errorf("update %s request: %w: %w", table, ErrUnavailable, err)
	}

	return decodeRows(resp)
}

// Upsert implements [RemoteStore]. PUT /api/tables/{table}/rows.
func (h *httpRemoteStore) Upsert(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("table", table).
		SetBody(rows).
		Put(rowsPath)
	if err != nil {
		return nil, fmt.Errorf("upsert %s request: %w: %w", table, ErrUnavailable, err)
	}

	return decodeRows(resp)
}

// Delete implements [RemoteStore]. DELETE /api/tables/{table}/rows/{id}.
func (h *httpRemoteStore) Delete(ctx context.Context, table, userID, id string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParams(map[string]string{"table": table, "id": id}).
		Delete(rowPath)
	if err != nil {
		return fmt.Errorf("delete %s request: %w: %w", table, ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

// Ping implements [RemoteStore]. GET /health without credentials.
func (h *httpRemoteStore) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		return fmt.Errorf("ping request: %w: %w", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if h.token != "" {
		req.SetAuthToken(h.token)
	}
	return req
}

func decodeRows(resp *resty.Response) ([]json.RawMessage, error) {
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}

	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var rr models.RowsResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("decode rows response: %w", err)
	}

	return rr.Rows, nil
}
