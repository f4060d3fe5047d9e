// Package location stores the named locations devices are installed at.
//
// Locations are created lazily: the device service calls GetOrCreate with
// whatever location_name a client supplies. GetOrCreate is a single upsert
// statement, so concurrent requests naming the same new location resolve to
// one row instead of failing on the UNIQUE constraint.
//
// # Thread Safety
//
// SQLRepository is safe for concurrent use from multiple goroutines.
package location
