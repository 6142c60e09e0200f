// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync client runtime.
//
// It wires local storage, the remote store gateway, the sync engine, the
// background workers and the terminal status monitor into a single process
// lifecycle.
package client
