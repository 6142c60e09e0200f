// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/stretchr/testify/require"
)

func testRow() models.StoredRow {
	return models.StoredRow{
		Table:  "bills",
		ID:     "b1",
		UserID: "user-1",
		Data:   json.RawMessage(`{"id":"b1","user_id":"user-1"}`),
	}
}

func Test_buildSelectRowsQuery_SQLContainsParts(t *testing.T) {
	query, args, err := buildSelectRowsQuery("bills", "user-1")
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "select")
	require.Contains(t, q, "from sync_rows")
	require.Contains(t, q, "where")
	require.Contains(t, q, "order by id")

	// placeholder format should be $N (Postgres)
	require.Contains(t, query, "$1")
	require.Contains(t, query, "$2")

	require.Equal(t, []any{"bills", "user-1"}, args)
}

func Test_buildInsertRowQuery(t *testing.T) {
	query, args, err := buildInsertRowQuery(testRow())
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into sync_rows")
	require.Contains(t, q, "returning table_name, id, user_id, data, updated_at")
	require.NotContains(t, q, "on conflict")

	require.Len(t, args, 4)
	require.Equal(t, "bills", args[0])
	require.Equal(t, "b1", args[1])
	require.Equal(t, "user-1", args[2])
	require.JSONEq(t, `{"id":"b1","user_id":"user-1"}`, args[3].(string))
}

func Test_buildUpsertRowQuery_GuardsOwner(t *testing.T) {
	query, args, err := buildUpsertRowQuery(testRow())
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "on conflict (table_name, id) do update")
	require.Contains(t, q, "where sync_rows.user_id = excluded.user_id")
	require.Contains(t, q, "returning")
	require.Len(t, args, 4)
}

func Test_buildUpdateRowQuery(t *testing.T) {
	query, args, err := buildUpdateRowQuery(testRow())
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "update sync_rows set data = $1")
	require.Contains(t, q, "updated_at = now()")
	require.Contains(t, q, "user_id = $4")

	// data first, then where-keys in sorted order: id, table_name, user_id.
	require.Len(t, args, 4)
	require.Equal(t, "b1", args[1])
	require.Equal(t, "bills", args[2])
	require.Equal(t, "user-1", args[3])
}

func Test_buildDeleteRowQuery(t *testing.T) {
	query, args, err := buildDeleteRowQuery("bills", "user-1", "b1")
	require.NoError(t, err)

	require.Contains(t, strings.ToLower(query), "delete from sync_rows where")
	require.Equal(t, []any{"b1", "bills", "user-1"}, args)
}

func Test_buildSetValueQuery_UsesQuestionPlaceholders(t *testing.T) {
	query, args, err := buildSetValueQuery("profile:u1", []byte(`{"a":1}`))
	require.NoError(t, err)

	require.Contains(t, query, "INSERT INTO kv_store")
	require.Contains(t, query, "ON CONFLICT(key) DO UPDATE")
	require.NotContains(t, query, "$1")
	require.Equal(t, []any{"profile:u1", `{"a":1}`}, args)
}

func Test_buildListKeysQuery_EscapesWildcards(t *testing.T) {
	_, args, err := buildListKeysQuery("offline_queue:")
	require.NoError(t, err)
	require.Equal(t, []any{`offline\_queue:%`}, args)
}
