// Package device stores device credentials and implements the operations
// the HTTP API exposes on them.
//
// # Key Types
//
//   - Device: the stored row (password is a bcrypt hash)
//   - Details: the read view with location and owner names resolved
//   - Patch: a partial update where nil fields are left unchanged
//   - Service: create, read, update, password rotation and delete
//
// # Ownership
//
// A device belongs to exactly one API user. Creating a device assigns it to
// the caller and every successful update reassigns it to the caller. Reads
// and deletes are not restricted to the owner.
//
// # Thread Safety
//
// Service and SQLRepository hold no mutable state and are safe for
// concurrent use.
package device
