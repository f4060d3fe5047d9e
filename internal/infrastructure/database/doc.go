// Package database provides SQL connectivity for devicekeeper.
//
// Two backends are supported:
//   - SQLite via mattn/go-sqlite3 (default), with WAL mode and a single
//     writer connection
//   - PostgreSQL via the pgx stdlib driver
//
// Schema migrations are embedded per dialect (see the migrations package)
// and applied with goose.
//
// Usage:
//
//	db, err := database.Open(database.Config{Driver: "sqlite", Path: "./data/devicekeeper.db"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, logger.Logger); err != nil {
//	    return err
//	}
//
// All queries use parameterised statements with $N placeholders, which both
// drivers accept.
package database
