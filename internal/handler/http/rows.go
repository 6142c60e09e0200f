// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) selectRows(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	table := chi.URLParam(r, "table")

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, ErrNoUserInContext)
		return
	}

	rows, err := h.services.RowService.Select(r.Context(), table, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.selectRows").Str("table", table).Msg("error selecting rows")
		writeError(w, err)
		return
	}

	writeRows(w, rows, http.StatusOK)
}

func (h *Handler) insertRows(w http.ResponseWriter, r *http.Request) {
	h.writeRows(w, r, http.StatusCreated, h.services.RowService.Insert)
}

func (h *Handler) upsertRows(w http.ResponseWriter, r *http.Request) {
	h.writeRows(w, r, http.StatusOK, h.services.RowService.Upsert)
}

// writeRows decodes a JSON array body, or a single object, and hands the rows
// to write.
func (h *Handler) writeRows(w http.ResponseWriter, r *http.Request, status int,
	write func(ctx context.Context, table, userID string, rows []json.RawMessage) ([]json.RawMessage, error)) {
	log := logger.FromRequest(r)
	table := chi.URLParam(r, "table")

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, ErrNoUserInContext)
		return
	}

	rows, err := decodeRowsBody(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.writeRows").Msg("invalid JSON was passed")
		writeError(w, err)
		return
	}

	saved, err := write(r.Context(), table, userID, rows)
	if err != nil {
		log.Err(err).Str("func", "*Handler.writeRows").Str("table", table).Msg("error writing rows")
		writeError(w, err)
		return
	}

	writeRows(w, saved, status)
}

func (h *Handler) updateRow(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	table := chi.URLParam(r, "table")
	id := chi.URLParam(r, "id")

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, ErrNoUserInContext)
		return
	}

	var row json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		log.Err(err).Str("func", "*Handler.updateRow").Msg("invalid JSON was passed")
		writeError(w, ErrInvalidRequestBody)
		return
	}

	saved, err := h.services.RowService.Update(r.Context(), table, userID, id, row)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateRow").Str("table", table).Str("id", id).Msg("error updating row")
		writeError(w, err)
		return
	}

	writeRows(w, []json.RawMessage{saved}, http.StatusOK)
}

func (h *Handler) deleteRow(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	table := chi.URLParam(r, "table")
	id := chi.URLParam(r, "id")

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, ErrNoUserInContext)
		return
	}

	if err := h.services.RowService.Delete(r.Context(), table, userID, id); err != nil {
		log.Err(err).Str("func", "*Handler.deleteRow").Str("table", table).Str("id", id).Msg("error deleting row")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeRowsBody(r *http.Request) ([]json.RawMessage, error) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, ErrInvalidRequestBody
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}
	// single object
	return []json.RawMessage{body}, nil
}

func writeRows(w http.ResponseWriter, rows []json.RawMessage, status int) {
	if rows == nil {
		rows = []json.RawMessage{}
	}
	_, _ = utils.WriteJSON(w, models.RowsResponse{Rows: rows, Length: len(rows)}, status)
}
