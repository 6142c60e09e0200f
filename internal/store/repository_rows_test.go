// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRowRepo(t *testing.T) (*rowRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &rowRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func storedRows(rows ...models.StoredRow) *sqlmock.Rows {
	out := sqlmock.NewRows(rowColumns)
	for _, r := range rows {
		out.AddRow(r.Table, r.ID, r.UserID, []byte(r.Data), r.UpdatedAt)
	}
	return out
}

// ── Select ───────────────────────────────────────────────────────────────────

func TestRowRepository_Select(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	now := time.Now()
	b1 := models.StoredRow{Table: "bills", ID: "b1", UserID: "user-1", Data: []byte(`{"id":"b1"}`), UpdatedAt: now}
	b2 := models.StoredRow{Table: "bills", ID: "b2", UserID: "user-1", Data: []byte(`{"id":"b2"}`), UpdatedAt: now}

	mock.ExpectQuery("SELECT (.+) FROM sync_rows").
		WithArgs("bills", "user-1").
		WillReturnRows(storedRows(b1, b2))

	rows, err := repo.Select(context.Background(), "bills", "user-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b1", rows[0].ID)
	assert.JSONEq(t, `{"id":"b2"}`, string(rows[1].Data))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRowRepository_Select_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM sync_rows").WillReturnRows(storedRows())

	rows, err := repo.Select(context.Background(), "bills", "user-1")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestRowRepository_Select_RetryableError(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM sync_rows").
		WillReturnError(pgError(pgerrcode.SerializationFailure))

	_, err := repo.Select(context.Background(), "bills", "user-1")
	assert.ErrorIs(t, err, ErrTemporary)
}

func TestRowRepository_Select_NonRetryableError(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM sync_rows").
		WillReturnError(pgError(pgerrcode.UndefinedTable))

	_, err := repo.Select(context.Background(), "bills", "user-1")
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrTemporary)
}

// ── Insert / Upsert ──────────────────────────────────────────────────────────

func TestRowRepository_Insert_Success(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	row := testRow()
	row.UpdatedAt = time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sync_rows").
		WithArgs(row.Table, row.ID, row.UserID, string(row.Data)).
		WillReturnRows(storedRows(row))
	mock.ExpectCommit()

	saved, err := repo.Insert(context.Background(), []models.StoredRow{row})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "b1", saved[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRowRepository_Insert_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sync_rows").
		WillReturnError(pgError(pgerrcode.UniqueViolation))
	mock.ExpectRollback()

	_, err := repo.Insert(context.Background(), []models.StoredRow{testRow()})
	assert.ErrorIs(t, err, ErrRowAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRowRepository_Insert_EmptyBatch(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	saved, err := repo.Insert(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, saved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRowRepository_Upsert_TwiceSameRow(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	row := testRow()
	for range 2 {
		mock.ExpectBegin()
		mock.ExpectQuery("ON CONFLICT").
			WithArgs(row.Table, row.ID, row.UserID, string(row.Data)).
			WillReturnRows(storedRows(row))
		mock.ExpectCommit()
	}

	for range 2 {
		saved, err := repo.Upsert(context.Background(), []models.StoredRow{row})
		require.NoError(t, err)
		require.Len(t, saved, 1)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRowRepository_Upsert_ForeignOwner(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("ON CONFLICT").WillReturnRows(storedRows())
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), []models.StoredRow{testRow()})
	assert.ErrorIs(t, err, ErrRowOwnedByAnotherUser)
}

func TestRowRepository_Upsert_BeginFails(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("conn closed"))

	_, err := repo.Upsert(context.Background(), []models.StoredRow{testRow()})
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

// ── Update / Delete ──────────────────────────────────────────────────────────

func TestRowRepository_Update(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	row := testRow()
	mock.ExpectQuery("UPDATE sync_rows").
		WithArgs(string(row.Data), row.ID, row.Table, row.UserID).
		WillReturnRows(storedRows(row))

	saved, err := repo.Update(context.Background(), row)
	require.NoError(t, err)
	assert.Equal(t, row.ID, saved.ID)
}

func TestRowRepository_Update_NotFound(t *testing.T) {
	repo, mock, db := newTestRowRepo(t)
	defer db.Close()

	mock.ExpectQuery("UPDATE sync_rows").WillReturnRows(storedRows())

	_, err := repo.Update(context.Background(), testRow())
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestRowRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "existing row", affected: 1, want: true},
		{name: "missing row", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newTestRowRepo(t)
			defer db.Close()

			mock.ExpectExec("DELETE FROM sync_rows").
				WithArgs("b1", "bills", "user-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			deleted, err := repo.Delete(context.Background(), "bills", "user-1", "b1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, deleted)
		})
	}
}
