package auth

import (
	"context"
	"testing"

	"github.com/nerrad567/devicekeeper/internal/infrastructure/database"
)

// testDB opens an in-memory SQLite database with all migrations applied.
// It is closed when the test completes.
func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{Driver: database.DriverSQLite, Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	if err := db.Migrate(context.Background(), nil); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

// fastHasher uses the minimum bcrypt cost to keep tests quick.
func fastHasher() *Hasher {
	return NewHasher(4, 4)
}
