package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/devicekeeper/internal/infrastructure/database"
)

// Repository defines the interface for device persistence operations.
//
// Update, UpdatePassword and Delete report the number of rows affected;
// zero means the device does not exist.
type Repository interface {
	// Create inserts a device and sets its ID. Password must already be hashed.
	Create(ctx context.Context, device *Device) error

	// GetByID returns the raw row. Returns ErrDeviceNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Device, error)

	// GetDetails returns the device with location and owner names resolved.
	GetDetails(ctx context.Context, id int64) (*Details, error)

	// List returns the resolved view of every device ordered by ID.
	List(ctx context.Context) ([]Details, error)

	Update(ctx context.Context, id int64, changes Changes) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// SQLRepository implements Repository on SQLite or PostgreSQL.
type SQLRepository struct {
	db database.Querier
}

// NewSQLRepository creates a new SQL-backed device repository.
func NewSQLRepository(db database.Querier) *SQLRepository {
	return &SQLRepository{db: db}
}

const detailsQuery = `
	SELECT d.id, d.name, d.type, d.login, l.name, u.name
	FROM devices d
	JOIN locations l ON l.id = d.location_id
	JOIN users u ON u.id = d.api_user_id`

// Create inserts a new device.
func (r *SQLRepository) Create(ctx context.Context, d *Device) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO devices (name, type, login, password, api_user_id, location_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		d.Name, d.Type, d.Login, d.Password, d.APIUserID, d.LocationID,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("inserting device: %w", err)
	}
	return nil
}

// GetByID retrieves the raw device row.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*Device, error) {
	var d Device
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, login, password, api_user_id, location_id FROM devices WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Type, &d.Login, &d.Password, &d.APIUserID, &d.LocationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return &d, nil
}

// GetDetails retrieves the resolved view of one device.
func (r *SQLRepository) GetDetails(ctx context.Context, id int64) (*Details, error) {
	row := r.db.QueryRowContext(ctx, detailsQuery+` WHERE d.id = $1`, id)
	details, err := scanDetails(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device details: %w", err)
	}
	return details, nil
}

// List retrieves the resolved view of all devices.
func (r *SQLRepository) List(ctx context.Context) ([]Details, error) {
	rows, err := r.db.QueryContext(ctx, detailsQuery+` ORDER BY d.id`)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defer rows.Close()

	devices := []Details{}
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// Update writes the non-nil fields of changes plus the owner.
func (r *SQLRepository) Update(ctx context.Context, id int64, c Changes) (int64, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if c.Name != nil {
		add("name", *c.Name)
	}
	if c.Type != nil {
		add("type", *c.Type)
	}
	if c.Login != nil {
		add("login", *c.Login)
	}
	if c.LocationID != nil {
		add("location_id", *c.LocationID)
	}
	add("api_user_id", c.APIUserID)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE devices SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	return r.exec(ctx, "updating device", query, args...)
}

// UpdatePassword replaces the stored password hash.
func (r *SQLRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error) {
	return r.exec(ctx, "updating device password",
		`UPDATE devices SET password = $1 WHERE id = $2`, passwordHash, id)
}

// Delete removes a device.
func (r *SQLRepository) Delete(ctx context.Context, id int64) (int64, error) {
	return r.exec(ctx, "deleting device", `DELETE FROM devices WHERE id = $1`, id)
}

func (r *SQLRepository) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return n, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

func scanDetails(s scanner) (*Details, error) {
	var d Details
	if err := s.Scan(&d.ID, &d.Name, &d.Type, &d.Login, &d.LocationName, &d.APIUserName); err != nil {
		return nil, err
	}
	return &d, nil
}
