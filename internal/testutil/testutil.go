// Package testutil provides shared fixtures for package tests: an in-memory session
// database, a miniredis-backed redis client and a fake REST backend.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"ecoRouteClient/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so that every pooled connection sees the same database.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// StartRedis runs a miniredis server and returns it with a connected client.
// Both are closed via t.Cleanup.
func StartRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}
