package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/devicekeeper/internal/infrastructure/database"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// SQLUserRepository implements UserRepository on SQLite or PostgreSQL.
type SQLUserRepository struct {
	db database.Querier
}

// NewUserRepository creates a new SQL-backed user repository.
func NewUserRepository(db database.Querier) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

// Create inserts a user and sets user.ID. user.Password must already be a hash.
// Returns ErrEmailExists if the email is taken.
func (r *SQLUserRepository) Create(ctx context.Context, user *User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		user.Name, user.Email, user.Password,
	).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *SQLUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getUser(ctx, "SELECT id, name, email, password FROM users WHERE id = $1", id)
}

// GetByEmail retrieves a user by exact (case-sensitive) email.
func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, "SELECT id, name, email, password FROM users WHERE email = $1", email)
}

func (r *SQLUserRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}
