// Package testutil provides shared test helpers for config files and SQLite databases.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/wordbridge/internal/config"
	"github.com/at-ishikawa/wordbridge/internal/database"
)

// Names of the files SetupTestConfig places under its directory.
const (
	DatabaseFile    = "wordbridge.db"
	ExportDirectory = "exports"
)

// SessionSecret is long enough to pass config validation.
const SessionSecret = "0123456789abcdef0123456789abcdef"

// SetupTestConfig creates a config file that points at a SQLite database and an export directory
// inside tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  driver: sqlite
  path: %q
export:
  directory: %q
`,
		filepath.Join(tmpDir, DatabaseFile),
		filepath.Join(tmpDir, ExportDirectory),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithSessionSecret creates a config file that also carries a session secret,
// for tests that start the server.
func SetupTestConfigWithSessionSecret(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("auth:\n  session_secret: %q\n", SessionSecret))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// NewSQLiteDB returns a migrated in-memory database that is closed when the test ends.
func NewSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := OpenSQLiteDB(t, ":memory:")
	require.NoError(t, database.Migrate(db))
	return db
}

// OpenSQLiteDB opens the SQLite database at path without migrating it.
func OpenSQLiteDB(t *testing.T, path string) *sqlx.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
