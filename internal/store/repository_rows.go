// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/jackc/pgerrcode"
)

// rowRepository is the PostgreSQL-backed implementation of [RowRepository].
// Every remote table lives in "sync_rows", keyed by (table_name, id) and
// scoped by user_id.
type rowRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewRowRepository constructs a [RowRepository] backed by db.
func NewRowRepository(db *DB, logger *logger.Logger) RowRepository {
	logger.Debug().Msg("creating row repository")
	return &rowRepository{db: db, logger: logger}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(s rowScanner) (models.StoredRow, error) {
	var (
		row  models.StoredRow
		data []byte
	)
	if err := s.Scan(&row.Table, &row.ID, &row.UserID, &data, &row.UpdatedAt); err != nil {
		return models.StoredRow{}, err
	}
	row.Data = data
	return row, nil
}

// wrapDBError maps retryable driver failures to [ErrTemporary].
func (r *rowRepository) wrapDBError(err error) error {
	if r.db.classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrTemporary, err)
	}
	return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}

// Select returns every row of table owned by userID ordered by id.
func (r *rowRepository) Select(ctx context.Context, table, userID string) ([]models.StoredRow, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectRowsQuery(table, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*rowRepository.Select").Str("table", table).Msg("error selecting rows")
		return nil, r.wrapDBError(err)
	}
	defer rows.Close()

	result := make([]models.StoredRow, 0)
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			log.Err(err).Str("func", "*rowRepository.Select").Msg("error scanning row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return result, nil
}

// Insert stores rows in one transaction. A duplicate (table, id) aborts the
// whole batch with [ErrRowAlreadyExists].
func (r *rowRepository) Insert(ctx context.Context, rows []models.StoredRow) ([]models.StoredRow, error) {
	return r.writeBatch(ctx, "*rowRepository.Insert", rows, buildInsertRowQuery)
}

// Upsert creates or replaces rows in one transaction. A row id held by another
// user aborts the batch with [ErrRowOwnedByAnotherUser].
func (r *rowRepository) Upsert(ctx context.Context, rows []models.StoredRow) ([]models.StoredRow, error) {
	return r.writeBatch(ctx, "*rowRepository.Upsert", rows, buildUpsertRowQuery)
}

func (r *rowRepository) writeBatch(ctx context.Context, funcName string, rows []models.StoredRow,
	build func(models.StoredRow) (string, []any, error)) ([]models.StoredRow, error) {
	log := logger.FromContext(ctx)

	if len(rows) == 0 {
		return []models.StoredRow{}, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error beginning transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck

	saved := make([]models.StoredRow, 0, len(rows))
	for _, row := range rows {
		query, args, err := build(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		stored, err := scanRow(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			log.Err(err).Str("func", funcName).Str("table", row.Table).Str("id", row.ID).Msg("error writing row")

			switch {
			case errors.Is(err, sql.ErrNoRows):
				return nil, ErrRowOwnedByAnotherUser
			case postgresError(err) == pgerrcode.UniqueViolation:
				return nil, ErrRowAlreadyExists
			default:
				return nil, r.wrapDBError(err)
			}
		}
		saved = append(saved, stored)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error committing transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return saved, nil
}

// Update replaces the data of an existing row owned by row.UserID.
func (r *rowRepository) Update(ctx context.Context, row models.StoredRow) (models.StoredRow, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateRowQuery(row)
	if err != nil {
		return models.StoredRow{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	stored, err := scanRow(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StoredRow{}, ErrRowNotFound
		}
		log.Err(err).Str("func", "*rowRepository.Update").Str("table", row.Table).Str("id", row.ID).Msg("error updating row")
		return models.StoredRow{}, r.wrapDBError(err)
	}

	return stored, nil
}

// Delete removes the row if it exists and belongs to userID.
func (r *rowRepository) Delete(ctx context.Context, table, userID, id string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteRowQuery(table, userID, id)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*rowRepository.Delete").Str("table", table).Str("id", id).Msg("error deleting row")
		return false, r.wrapDBError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return affected > 0, nil
}

func (r *rowRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
