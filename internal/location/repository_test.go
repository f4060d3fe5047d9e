package location

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nerrad567/devicekeeper/internal/infrastructure/database"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{Driver: database.DriverSQLite, Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	if err := db.Migrate(context.Background(), nil); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func countLocations(t *testing.T, db *database.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM locations").Scan(&n); err != nil {
		t.Fatalf("counting locations: %v", err)
	}
	return n
}

func TestCreateAndGet(t *testing.T) {
	repo := NewSQLRepository(setupTestDB(t))
	ctx := context.Background()

	loc, err := repo.Create(ctx, "Warehouse")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if loc.ID == 0 {
		t.Fatal("Create() did not assign an ID")
	}

	byID, err := repo.GetByID(ctx, loc.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if *byID != *loc {
		t.Errorf("GetByID() = %+v, want %+v", byID, loc)
	}

	byName, err := repo.GetByName(ctx, "Warehouse")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if byName.ID != loc.ID {
		t.Errorf("GetByName().ID = %d, want %d", byName.ID, loc.ID)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo := NewSQLRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, "Lab"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.Create(ctx, "Lab"); !errors.Is(err, ErrLocationExists) {
		t.Errorf("second Create() error = %v, want ErrLocationExists", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := NewSQLRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 42); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("GetByID() error = %v, want ErrLocationNotFound", err)
	}
	if _, err := repo.GetByName(ctx, "nowhere"); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("GetByName() error = %v, want ErrLocationNotFound", err)
	}
}

func TestGetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, "Roof")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	second, err := repo.GetOrCreate(ctx, "Roof")
	if err != nil {
		t.Fatalf("second GetOrCreate() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("GetOrCreate() IDs differ: %d vs %d", first.ID, second.ID)
	}

	// An existing row made through Create is reused too.
	made, err := repo.Create(ctx, "Basement")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := repo.GetOrCreate(ctx, "Basement")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if got.ID != made.ID {
		t.Errorf("GetOrCreate().ID = %d, want %d", got.ID, made.ID)
	}

	if n := countLocations(t, db); n != 2 {
		t.Errorf("locations = %d, want 2", n)
	}
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLRepository(db)
	ctx := context.Background()

	const workers = 16
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loc, err := repo.GetOrCreate(ctx, "Shared")
			errs[i] = err
			if loc != nil {
				ids[i] = loc.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d error = %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("worker %d got ID %d, want %d", i, ids[i], ids[0])
		}
	}

	if n := countLocations(t, db); n != 1 {
		t.Errorf("locations = %d, want 1", n)
	}
}

func TestGetOrCreate_InvalidName(t *testing.T) {
	repo := NewSQLRepository(setupTestDB(t))

	for _, name := range []string{"", "   ", strings.Repeat("a", maxNameLength+1)} {
		if _, err := repo.GetOrCreate(context.Background(), name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("GetOrCreate(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}
