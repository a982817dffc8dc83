package testutil

import (
	"path/filepath"
	"testing"

	"github.com/codr1/Ladderbot/internal/db"
	"github.com/codr1/Ladderbot/internal/store"
)

// NewTestDB opens a migrated SQLite database in a per-test directory and
// closes it when the test ends.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "ladder.db"))
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// NewTestStore returns a ladder repository backed by a fresh test database.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	return store.NewSQLiteStore(NewTestDB(t))
}
