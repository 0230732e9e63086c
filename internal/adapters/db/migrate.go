package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending migrations from sourceURL (for example
// "file://migrations"). The migrations carry the schema invariants the service
// relies on, in particular the (gig_id, freelancer_id) uniqueness constraint
// on bids.
func RunMigrations(conn *Connection, sourceURL, databaseName string) error {
	driver, err := pgmigrate.WithInstance(conn.DB(), &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceURL, databaseName, driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
