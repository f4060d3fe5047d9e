package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/devicekeeper/internal/auth"
	"github.com/nerrad567/devicekeeper/internal/location"
)

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// PasswordHasher hashes and verifies device passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, hash, candidate string) (bool, error)
}

// LocationResolver maps a location name to a row, creating it if needed.
type LocationResolver interface {
	GetOrCreate(ctx context.Context, name string) (*location.Location, error)
}

// UserLookup loads the acting user for password checks.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

// PasswordCheck selects what old_password is verified against on rotation.
type PasswordCheck string

const (
	// CheckUserPassword verifies old_password against the acting user's own
	// account password.
	CheckUserPassword PasswordCheck = "user"

	// CheckDevicePassword verifies old_password against the device's current
	// stored password.
	CheckDevicePassword PasswordCheck = "device"
)

// Service implements the device operations exposed over HTTP.
//
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	repo      Repository
	locations LocationResolver
	users     UserLookup
	hasher    PasswordHasher
	check     PasswordCheck
	logger    Logger
}

// NewService creates a device service. check defaults to CheckUserPassword
// when empty.
func NewService(repo Repository, locations LocationResolver, users UserLookup, hasher PasswordHasher, check PasswordCheck) *Service {
	if check == "" {
		check = CheckUserPassword
	}
	return &Service{
		repo:      repo,
		locations: locations,
		users:     users,
		hasher:    hasher,
		check:     check,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// Create stores a new device owned by userID. The password is hashed
// before the location is resolved, so the location row is created on first
// use only by a create that can succeed.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*Device, error) {
	if err := ValidateCreate(in); err != nil {
		return nil, err
	}

	// Hash first: a rejected password must not leave a new location behind.
	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	loc, err := s.locations.GetOrCreate(ctx, in.LocationName)
	if err != nil {
		return nil, fmt.Errorf("resolving location: %w", err)
	}

	d := &Device{
		Name:       in.Name,
		Type:       in.Type,
		Login:      in.Login,
		Password:   hash,
		APIUserID:  userID,
		LocationID: loc.ID,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("device created", "device_id", d.ID, "user_id", userID, "location_id", loc.ID)
	return d, nil
}

// Get returns the resolved view of a device.
func (s *Service) Get(ctx context.Context, id int64) (*Details, error) {
	return s.repo.GetDetails(ctx, id)
}

// List returns the resolved view of every device.
func (s *Service) List(ctx context.Context) ([]Details, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update. Fields absent from the patch keep their
// stored values. Ownership always moves to userID, but ownership alone does
// not count as an update: an empty patch yields ErrNoFieldsToUpdate.
func (s *Service) Update(ctx context.Context, userID, id int64, patch Patch) error {
	if err := ValidatePatch(patch); err != nil {
		return err
	}

	changes := Changes{
		Name:      patch.Name,
		Type:      patch.Type,
		Login:     patch.Login,
		APIUserID: userID,
	}
	if patch.LocationName != nil {
		loc, err := s.locations.GetOrCreate(ctx, *patch.LocationName)
		if err != nil {
			return fmt.Errorf("resolving location: %w", err)
		}
		changes.LocationID = &loc.ID
	}

	n, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeviceNotFound
	}

	s.logger.Info("device updated", "device_id", id, "user_id", userID)
	return nil
}

// RotatePassword replaces the device password after verifying oldPassword
// against the configured target. On failure the device is left unchanged.
func (s *Service) RotatePassword(ctx context.Context, userID, id int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingFields
	}

	hash, err := s.verificationHash(ctx, userID, id)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(ctx, hash, oldPassword)
	if err != nil {
		if !errors.Is(err, auth.ErrMalformedHash) {
			return err
		}
		s.logger.Warn("stored password hash is malformed", "device_id", id, "user_id", userID, "check", string(s.check))
	}
	if !ok {
		return ErrInvalidOldPassword
	}

	newHash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}

	n, err := s.repo.UpdatePassword(ctx, id, newHash)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeviceNotFound
	}

	s.logger.Info("device password rotated", "device_id", id, "user_id", userID)
	return nil
}

// verificationHash returns the stored hash old_password must match.
func (s *Service) verificationHash(ctx context.Context, userID, id int64) (string, error) {
	if s.check == CheckDevicePassword {
		d, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return d.Password, nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// An identity without an account cannot prove anything.
			return "", ErrInvalidOldPassword
		}
		return "", fmt.Errorf("loading acting user: %w", err)
	}
	return u.Password, nil
}

// Delete removes a device. There is no ownership check.
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeviceNotFound
	}

	s.logger.Info("device deleted", "device_id", id)
	return nil
}
