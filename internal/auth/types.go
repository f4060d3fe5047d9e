package auth

import "errors"

// User is an API account. Devices are owned by exactly one User.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash, never serialised
}

// Domain errors.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenMalformed  = errors.New("token is malformed")
	ErrMalformedHash   = errors.New("stored password hash is malformed")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)
