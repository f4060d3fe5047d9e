package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/nerrad567/devicekeeper/migrations"
)

// gooseMu guards goose's package-level configuration (base FS, dialect, logger).
var gooseMu sync.Mutex

// gooseDialects maps our driver names to goose dialect names.
var gooseDialects = map[string]string{
	DriverSQLite:   "sqlite3",
	DriverPostgres: "pgx",
}

// Migrate applies all pending migrations for the connection's driver.
// Migrations are embedded in the binary and tracked by goose in the
// goose_db_version table. A nil logger silences goose output.
func (db *DB) Migrate(ctx context.Context, logger *slog.Logger) error {
	fsys, err := migrations.For(db.driver)
	if err != nil {
		return err
	}
	dialect, ok := gooseDialects[db.driver]
	if !ok {
		return fmt.Errorf("no goose dialect for driver %q", db.driver)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if logger == nil {
		goose.SetLogger(goose.NopLogger())
	} else {
		goose.SetLogger(gooseLogger{logger})
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the latest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	dialect, ok := gooseDialects[db.driver]
	if !ok {
		return 0, fmt.Errorf("no goose dialect for driver %q", db.driver)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("setting migration dialect: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// gooseLogger routes goose's printf-style output into slog.
type gooseLogger struct {
	l *slog.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Info(fmt.Sprintf(format, v...), "component", "migrations")
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(fmt.Sprintf(format, v...), "component", "migrations")
}
