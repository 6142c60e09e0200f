// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Profile is the per-user settings snapshot. The client caches the last copy
// it managed to load so it can start without the network.
type Profile struct {
	UserID           string    `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	Currency         string    `json:"currency"`
	DefaultWorkspace Workspace `json:"default_workspace"`
	UpdatedAt        time.Time `json:"updated_at"`
}
