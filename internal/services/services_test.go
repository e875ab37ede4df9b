package services_test

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/linkup-social/linkup-be/internal/database"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens an isolated in-memory database with the full schema.
// A single connection keeps every query on the same in-memory instance.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// insertUser seeds a user row and returns its id.
func insertUser(t *testing.T, db *sql.DB, username string, isPrivate bool, role string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec(
		"INSERT INTO users (id, username, email, password_hash, is_private, role) VALUES (?, ?, ?, ?, ?, ?)",
		id, username, username+"@test.com", "x", isPrivate, role,
	)
	require.NoError(t, err)
	return id
}

// followID looks up the edge id for a (target, follower) pair.
func followID(t *testing.T, db *sql.DB, targetID, followerID string) string {
	t.Helper()
	var id string
	err := db.QueryRow(
		"SELECT id FROM follows WHERE target_user_id = ? AND follower_user_id = ?",
		targetID, followerID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// countRows counts rows matching a query.
func countRows(t *testing.T, db *sql.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}
