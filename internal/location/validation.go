package location

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxNameLength bounds location names, counted in runes.
const maxNameLength = 100

// ValidateName checks if a location name is valid.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}
