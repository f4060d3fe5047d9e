// Package auth provides credential hashing, access tokens and user accounts.
//
// It implements:
//   - bcrypt password hashing with a bounded number of concurrent hashes
//   - stateless HS256 JWT access tokens carrying the user's ID
//   - the user account repository (SQLite or PostgreSQL)
//
// There is no session store or refresh token: a token is valid until it
// expires.
package auth
