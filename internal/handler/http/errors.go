// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidToken is returned when the bearer token fails signature,
	// issuer or expiry validation.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrNoUserInContext means a protected handler ran without the auth
	// middleware.
	ErrNoUserInContext = errors.New("no authenticated user in request context")
)

// ErrInvalidRequestBody is returned when a request body is not valid JSON of
// the expected shape.
var ErrInvalidRequestBody = errors.New("invalid request body")
