package device

import (
	"context"
	"testing"

	"github.com/nerrad567/devicekeeper/internal/auth"
	"github.com/nerrad567/devicekeeper/internal/infrastructure/database"
	"github.com/nerrad567/devicekeeper/internal/location"
)

// testEnv bundles a migrated in-memory database and the real repositories.
type testEnv struct {
	db        *database.DB
	repo      *SQLRepository
	users     *auth.SQLUserRepository
	locations *location.SQLRepository
	hasher    *auth.Hasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.Config{Driver: database.DriverSQLite, Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	if err := db.Migrate(context.Background(), nil); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	return &testEnv{
		db:        db,
		repo:      NewSQLRepository(db),
		users:     auth.NewUserRepository(db),
		locations: location.NewSQLRepository(db),
		hasher:    auth.NewHasher(4, 4),
	}
}

func (e *testEnv) service(check PasswordCheck) *Service {
	return NewService(e.repo, e.locations, e.users, e.hasher, check)
}

// createUser stores a user whose password is plaintext hashed at minimum cost.
func (e *testEnv) createUser(t *testing.T, name, plaintext string) *auth.User {
	t.Helper()
	hash, err := e.hasher.Hash(context.Background(), plaintext)
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	u := &auth.User{Name: name, Email: name + "@example.com", Password: hash}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return u
}

func (e *testEnv) countLocations(t *testing.T) int {
	t.Helper()
	var n int
	if err := e.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM locations").Scan(&n); err != nil {
		t.Fatalf("counting locations: %v", err)
	}
	return n
}

func ptr(s string) *string { return &s }
