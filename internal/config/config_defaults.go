// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Built-in defaults, merged after every other source.
const (
	DefaultServerAddress         = "localhost:8080"
	DefaultRequestTimeout        = 30 * time.Second
	DefaultMaxConcurrentRequests = 2
	DefaultProfileTimeout        = 30 * time.Second
	DefaultProbeInterval         = 5 * time.Second
	DefaultRefreshInterval       = 30 * time.Second
	DefaultClientDSN             = "file:fin-sync.db?_foreign_keys=on"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			ProfileTimeout: DefaultProfileTimeout,
		},
		Server: Server{
			HTTPAddress:    DefaultServerAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:           DefaultServerAddress,
			RequestTimeout:        DefaultRequestTimeout,
			MaxConcurrentRequests: DefaultMaxConcurrentRequests,
		},
		Workers: Workers{
			ProbeInterval:   DefaultProbeInterval,
			RefreshInterval: DefaultRefreshInterval,
		},
	}
}
