package database

import (
	"fmt"
	"path"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/at-ishikawa/wordbridge/schemas"
)

func gooseDialect(driverName string) (string, string, error) {
	switch driverName {
	case "mysql":
		return "mysql", path.Join("migrations", "mysql"), nil
	case "sqlite":
		return "sqlite3", path.Join("migrations", "sqlite"), nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driverName)
	}
}

func setupGoose(db *sqlx.DB) (string, error) {
	dialect, dir, err := gooseDialect(db.DriverName())
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(schemas.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return dir, nil
}

// Migrate applies all pending migrations for the connection's driver.
func Migrate(db *sqlx.DB) error {
	dir, err := setupGoose(db)
	if err != nil {
		return err
	}
	if err := goose.Up(db.DB, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrationStatus prints the state of every migration through goose's logger.
func MigrationStatus(db *sqlx.DB) error {
	dir, err := setupGoose(db)
	if err != nil {
		return err
	}
	if err := goose.Status(db.DB, dir); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// MigrationVersion returns the current migration version.
func MigrationVersion(db *sqlx.DB) (int64, error) {
	if _, err := setupGoose(db); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db.DB)
}
