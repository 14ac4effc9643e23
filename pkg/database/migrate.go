package database

import (
	"database/sql"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunMigrations applies every pending up migration found at migrationsPath (a file:// URL).
// It reports whether anything was applied.
func RunMigrations(databaseURL, migrationsPath string) (applied bool, err error) {
	// golang-migrate needs a database/sql handle; the pgx stdlib driver keeps the same wire driver.
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return false, fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return false, fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return false, fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return false, fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return false, fmt.Errorf("failed to apply migrations: %w", upErr)
	}
	if sourceErr != nil {
		return false, fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return false, fmt.Errorf("migration database error: %w", dbErr)
	}
	return upErr == nil, nil
}
