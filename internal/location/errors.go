package location

import "errors"

var (
	// ErrLocationNotFound is returned when a location ID or name does not exist.
	ErrLocationNotFound = errors.New("location not found")

	// ErrLocationExists is returned by Create when the name is already taken.
	ErrLocationExists = errors.New("location already exists")

	// ErrInvalidName is returned when a location name fails validation.
	ErrInvalidName = errors.New("invalid location name")
)
