// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Get("/health", h.health)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/tables/{table}/rows", func(r chi.Router) {
			r.Use(withGzip)
			if h.requestTimeout > 0 {
				r.Use(middleware.Timeout(h.requestTimeout))
			}

			r.Get("/", h.selectRows)
			r.Post("/", h.insertRows)
			r.Put("/", h.upsertRows)
			r.Patch("/{id}", h.updateRow)
			r.Delete("/{id}", h.deleteRow)
		})

		// long-lived: no timeout, no compression
		r.Get("/api/realtime/{table}", h.realtime)
	})

	return router
}
