// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

// Transport errors mapped from HTTP status codes by mapHTTPError.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
)

// ErrUnavailable is returned when the remote store cannot be reached at all
// (connection refused, DNS failure, timeout, 503).
var ErrUnavailable = errors.New("remote store unavailable")

// Gateway errors. They are returned inside [models.RemoteResult], never panicked.
var (
	ErrNoUser           = errors.New("no user id set on gateway")
	ErrUnknownOperation = errors.New("unknown remote operation")
	ErrInvalidOperation = errors.New("invalid remote operation")
)
