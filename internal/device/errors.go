package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrMissingFields is returned when a required field is absent or empty.
	ErrMissingFields = errors.New("device: missing fields")

	// ErrNoFieldsToUpdate is returned when an update carries no updatable field.
	ErrNoFieldsToUpdate = errors.New("device: no fields to update")

	// ErrInvalidOldPassword is returned when password rotation cannot verify old_password.
	ErrInvalidOldPassword = errors.New("device: invalid old password")

	// ErrInvalidDevice is returned when a field fails validation.
	ErrInvalidDevice = errors.New("device: invalid")
)
