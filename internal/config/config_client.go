// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// ProfileTimeout bounds the remote profile load.
	ProfileTimeout time.Duration
	// LogFile is the rotated client log file. Empty selects the default
	// location next to the executable.
	LogFile string
	// Version is shown in the status monitor footer.
	Version string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the remote store address used by the client.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// MaxConcurrentRequests is the gateway concurrency cap.
	MaxConcurrentRequests int
	// Token is the bearer token presented to the remote store.
	Token string
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// ProbeInterval defines how often connectivity is probed.
	ProbeInterval time.Duration
	// RefreshInterval defines how often a pending queue is retried.
	RefreshInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains the remote store address, credentials and limits.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	if clientCfg.Storage.DB.DSN == "" {
		clientCfg.Storage.DB.DSN = DefaultClientDSN
	}

	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			ProfileTimeout: cfg.App.ProfileTimeout,
			LogFile:        cfg.App.LogFile,
			Version:        cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:           cfg.Adapter.HTTPAddress,
			RequestTimeout:        cfg.Adapter.RequestTimeout,
			MaxConcurrentRequests: cfg.Adapter.MaxConcurrentRequests,
			Token:                 cfg.Adapter.Token,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{
			ProbeInterval:   cfg.Workers.ProbeInterval,
			RefreshInterval: cfg.Workers.RefreshInterval,
		},
	}
}
