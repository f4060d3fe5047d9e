// Package migrations embeds the goose SQL migrations into the binary.
//
// Each supported database driver has its own directory because the DDL
// differs (AUTOINCREMENT vs BIGSERIAL).
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// For returns the migration files for a driver ("sqlite" or "postgres")
// rooted so that the .sql files sit at ".".
func For(driver string) (fs.FS, error) {
	switch driver {
	case "sqlite", "postgres":
		return fs.Sub(files, driver)
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
}
