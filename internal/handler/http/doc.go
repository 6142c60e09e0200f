// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport of the remote store server.
//
// It exposes the row endpoints of every synced table, the websocket change
// feed and the health probe. Authentication, request tracing, access logging
// and response compression are handled here before requests reach the
// service layer.
package http
