// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells the row repository whether a driver failure is
// worth retrying. Retryable failures surface as [ErrTemporary] and the server
// answers them with 503, so clients keep the mutation queued.
type ErrorClassification int

const (
	// NonRetryable is the default for anything not known to be transient.
	NonRetryable ErrorClassification = iota

	// Retryable marks connection loss, rollbacks and server overload.
	Retryable
)

// PostgresErrorClassifier implements [ErrorClassificator] for the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Driver timeouts are retryable;
// other errors without a SQLSTATE are not.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}
	if pgconn.Timeout(err) {
		return Retryable
	}
	return NonRetryable
}

// ClassifyPgError classifies by SQLSTATE class
// (https://www.postgresql.org/docs/current/errcodes-appendix.html):
//
//   - 08 connection exception, 40 transaction rollback, 53 insufficient
//     resources and 57 operator intervention are retryable;
//   - everything else, including 23 constraint violations, is not.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	code := pgErr.Code
	switch {
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsTransactionRollback(code),
		pgerrcode.IsInsufficientResources(code),
		pgerrcode.IsOperatorIntervention(code):
		return Retryable
	default:
		return NonRetryable
	}
}
