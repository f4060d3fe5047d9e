package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/devicekeeper/internal/infrastructure/database"
)

// Repository defines the interface for location persistence operations.
type Repository interface {
	Create(ctx context.Context, name string) (*Location, error)
	GetByID(ctx context.Context, id int64) (*Location, error)
	GetByName(ctx context.Context, name string) (*Location, error)
	GetOrCreate(ctx context.Context, name string) (*Location, error)
}

// SQLRepository implements Repository on SQLite or PostgreSQL.
type SQLRepository struct {
	db database.Querier
}

// NewSQLRepository creates a new SQL-backed location repository.
func NewSQLRepository(db database.Querier) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts a new location. Returns ErrLocationExists if the name is taken.
func (r *SQLRepository) Create(ctx context.Context, name string) (*Location, error) {
	loc := &Location{Name: name}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO locations (name) VALUES ($1) RETURNING id`, name,
	).Scan(&loc.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrLocationExists
		}
		return nil, fmt.Errorf("inserting location %q: %w", name, err)
	}
	return loc, nil
}

// GetByID retrieves a location by ID.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*Location, error) {
	return r.get(ctx, `SELECT id, name FROM locations WHERE id = $1`, id)
}

// GetByName retrieves a location by its exact name.
func (r *SQLRepository) GetByName(ctx context.Context, name string) (*Location, error) {
	return r.get(ctx, `SELECT id, name FROM locations WHERE name = $1`, name)
}

// GetOrCreate returns the location called name, inserting it first if needed.
//
// The no-op DO UPDATE makes RETURNING yield the existing row's id on
// conflict, which DO NOTHING would not.
func (r *SQLRepository) GetOrCreate(ctx context.Context, name string) (*Location, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	loc := &Location{Name: name}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO locations (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = excluded.name
		 RETURNING id`, name,
	).Scan(&loc.ID)
	if err != nil {
		return nil, fmt.Errorf("upserting location %q: %w", name, err)
	}
	return loc, nil
}

func (r *SQLRepository) get(ctx context.Context, query string, arg any) (*Location, error) {
	var loc Location
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&loc.ID, &loc.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("scanning location: %w", err)
	}
	return &loc, nil
}
