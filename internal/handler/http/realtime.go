// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/utils"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

const realtimeWriteTimeout = 5 * time.Second

// realtime upgrades the request to a websocket and streams the change events
// of {table} for the authenticated user as JSON text messages until either
// side goes away.
func (h *Handler) realtime(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	table := chi.URLParam(r, "table")

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, ErrNoUserInContext)
		return
	}
	if !models.Collection(table).Valid() && table != models.TableProfiles {
		http.Error(w, "unknown table", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.realtime").Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	events, unsubscribe := h.services.ChangeHub.Subscribe(table, userID)
	defer unsubscribe()

	log.Debug().Str("table", table).Str("user_id", userID).Msg("realtime subscriber connected")

	// the client never sends data; the read loop only notices the close
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("table", table).Msg("realtime subscriber disconnected")
			return
		case evt, ok := <-events:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "feed closed")
				return
			}
			if err := writeEvent(ctx, conn, evt); err != nil {
				log.Err(err).Str("func", "*Handler.realtime").Str("table", table).Msg("error writing change event")
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, evt models.ChangeEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, realtimeWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
