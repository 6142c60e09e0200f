// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/store"
)

// Services groups the services of the remote store server.
type Services struct {
	RowService RowService
	ChangeHub  *ChangeHub
}

func NewServices(storages *store.Storages, logger *logger.Logger) *Services {
	hub := NewChangeHub(logger)
	return &Services{
		RowService: NewRowService(storages.RowRepository, hub, logger),
		ChangeHub:  hub,
	}
}
