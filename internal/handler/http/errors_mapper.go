// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-fin-sync/internal/service"
	"github.com/MKhiriev/go-fin-sync/internal/store"
)

var errorStatusMap = map[error]int{
	ErrInvalidRequestBody: http.StatusBadRequest,
	ErrNoUserInContext:    http.StatusUnauthorized,

	service.ErrUnknownTable:   http.StatusBadRequest,
	service.ErrInvalidRow:     http.StatusBadRequest,
	service.ErrMissingRowID:   http.StatusBadRequest,
	service.ErrRowIDMismatch:  http.StatusBadRequest,
	service.ErrNoRowsProvided: http.StatusBadRequest,

	store.ErrRowAlreadyExists:      http.StatusConflict,
	store.ErrRowNotFound:           http.StatusNotFound,
	store.ErrRowOwnedByAnotherUser: http.StatusForbidden,
	store.ErrTemporary:             http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError answers with the status of err. Server-side failures hide the
// error text from the caller.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		msg = http.StatusText(status)
	}
	http.Error(w, msg, status)
}
