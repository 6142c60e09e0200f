// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-fin-sync/models"
)

const (
	rowsTable = "sync_rows"
	kvTable   = "kv_store"

	rowReturning = "RETURNING table_name, id, user_id, data, updated_at"
)

var (
	psql    = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	sqliteQ = sq.StatementBuilder.PlaceholderFormat(sq.Question)

	rowColumns = []string{"table_name", "id", "user_id", "data", "updated_at"}
)

// ── sync_rows (PostgreSQL) ───────────────────────────────────────────────────

func buildSelectRowsQuery(table, userID string) (string, []any, error) {
	return psql.Select(rowColumns...).
		From(rowsTable).
		Where(sq.Eq{"table_name": table, "user_id": userID}).
		OrderBy("id").
		ToSql()
}

func buildInsertRowQuery(row models.StoredRow) (string, []any, error) {
	return psql.Insert(rowsTable).
		Columns("table_name", "id", "user_id", "data").
		Values(row.Table, row.ID, row.UserID, string(row.Data)).
		Suffix(rowReturning).
		ToSql()
}

// buildUpsertRowQuery replaces the row only when it belongs to the same user;
// otherwise RETURNING yields nothing.
func buildUpsertRowQuery(row models.StoredRow) (string, []any, error) {
	return psql.Insert(rowsTable).
		Columns("table_name", "id", "user_id", "data").
		Values(row.Table, row.ID, row.UserID, string(row.Data)).
		Suffix(`ON CONFLICT (table_name, id) DO UPDATE
			SET data = EXCLUDED.data, updated_at = NOW()
			WHERE sync_rows.user_id = EXCLUDED.user_id ` + rowReturning).
		ToSql()
}

func buildUpdateRowQuery(row models.StoredRow) (string, []any, error) {
	return psql.Update(rowsTable).
		Set("data", string(row.Data)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"table_name": row.Table, "id": row.ID, "user_id": row.UserID}).
		Suffix(rowReturning).
		ToSql()
}

func buildDeleteRowQuery(table, userID, id string) (string, []any, error) {
	return psql.Delete(rowsTable).
		Where(sq.Eq{"table_name": table, "id": id, "user_id": userID}).
		ToSql()
}

// ── kv_store (SQLite) ────────────────────────────────────────────────────────

func buildGetValueQuery(key string) (string, []any, error) {
	return sqliteQ.Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

func buildSetValueQuery(key string, value []byte) (string, []any, error) {
	return sqliteQ.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, string(value), sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
}

func buildDeleteValueQuery(key string) (string, []any, error) {
	return sqliteQ.Delete(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

func buildListKeysQuery(prefix string) (string, []any, error) {
	return sqliteQ.Select("key").
		From(kvTable).
		Where(sq.Expr(`key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%")).
		OrderBy("key").
		ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
