// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements persistence for both sides of go-fin-sync: the
// client's local key-value storage (SQLite) and the remote store server's
// row repository (PostgreSQL).
package store

import (
	"database/sql"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/migrations"
)

// DB wraps an open *sql.DB together with the error classifier of its driver.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	dialect            migrations.Dialect
}

// NewDB wraps an open connection. A nil classificator treats every driver
// error as non-retryable.
func NewDB(conn *sql.DB, classificator ErrorClassificator, dialect migrations.Dialect, log *logger.Logger) *DB {
	return &DB{DB: conn, errorClassificator: classificator, dialect: dialect, logger: log}
}

// Migrate applies the embedded schema of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// classify returns NonRetryable when the connection has no classifier.
func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}
