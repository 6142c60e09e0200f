// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Client-side sync errors.
var (
	ErrReplayOffline      = errors.New("offline queue replay requires a connection")
	ErrReplayInProgress   = errors.New("offline queue replay or sync already in progress")
	ErrNoReplayer         = errors.New("no channel registered for queued collection")
	ErrMalformedRow       = errors.New("malformed remote row")
	ErrProfileUnavailable = errors.New("profile is unavailable")
	ErrProfileNotFound    = errors.New("profile not found")
)

// Remote store server errors.
var (
	ErrUnknownTable   = errors.New("unknown table")
	ErrInvalidRow     = errors.New("row must be a JSON object")
	ErrMissingRowID   = errors.New("row has no id")
	ErrRowIDMismatch  = errors.New("row id does not match the path")
	ErrNoRowsProvided = errors.New("no rows provided")
)
