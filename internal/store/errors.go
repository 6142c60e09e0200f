// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrKeyNotFound is returned by [KeyValueRepository.Get] for a missing key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrRowAlreadyExists is returned when an insert hits an existing
	// (table_name, id) pair.
	ErrRowAlreadyExists = errors.New("row already exists")

	// ErrRowNotFound is returned when an update targets a row that does not
	// exist for the given user.
	ErrRowNotFound = errors.New("row not found")

	// ErrRowOwnedByAnotherUser is returned when an upsert collides with a row
	// id that belongs to a different user.
	ErrRowOwnedByAnotherUser = errors.New("row belongs to another user")

	// ErrTemporary wraps driver errors classified as [Retryable].
	ErrTemporary = errors.New("temporary database error")
)

// Low-level database operation errors.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("error beginning transaction")
	ErrCommitingTransaction = errors.New("error committing transaction")
	ErrScanningRows         = errors.New("error scanning rows")
)
