package device

import (
	"fmt"
	"unicode/utf8"
)

// maxFieldLength bounds the free-text device fields, counted in runes.
const maxFieldLength = 255

// ValidateCreate checks that every field of a new device is present and sane.
// An empty string counts as missing.
func ValidateCreate(in CreateInput) error {
	if in.Name == "" || in.Type == "" || in.Login == "" || in.Password == "" || in.LocationName == "" {
		return ErrMissingFields
	}
	return validateLengths(map[string]*string{
		"name":  &in.Name,
		"type":  &in.Type,
		"login": &in.Login,
	})
}

// ValidatePatch checks the fields a partial update supplies.
func ValidatePatch(p Patch) error {
	if p.Empty() {
		return ErrNoFieldsToUpdate
	}
	return validateLengths(map[string]*string{
		"name":  p.Name,
		"type":  p.Type,
		"login": p.Login,
	})
}

func validateLengths(fields map[string]*string) error {
	for name, v := range fields {
		if v != nil && utf8.RuneCountInString(*v) > maxFieldLength {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidDevice, name, maxFieldLength)
		}
	}
	return nil
}
