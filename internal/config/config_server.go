// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ServerConfig is the remote store server's view of [StructuredConfig].
type ServerConfig struct {
	// HTTPAddress is the listen address of the HTTP server.
	HTTPAddress string
	// RequestTimeout bounds every inbound request.
	RequestTimeout time.Duration
	// DSN is the PostgreSQL connection string.
	DSN string
	// TokenSignKey verifies HS256 bearer tokens.
	TokenSignKey string
	// TokenIssuer is the expected issuer claim; empty disables the check.
	TokenIssuer string
	// Version is reported by the health endpoint.
	Version string
}

// GetServerConfig builds and validates the server config view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := newServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

func newServerConfig(cfg *StructuredConfig) *ServerConfig {
	return &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		DSN:            cfg.Storage.DB.DSN,
		TokenSignKey:   cfg.App.TokenSignKey,
		TokenIssuer:    cfg.App.TokenIssuer,
		Version:        cfg.App.Version,
	}
}
